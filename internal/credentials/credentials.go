// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package credentials persists the access credential obtained from the
// authorization flow. The credential lives in a TOML file under the
// per-user config directory; it is created once by the flow, read on every
// subsequent run, and only ever removed by the user deleting the file.
package credentials

import (
	"fmt"
	"strings"
)

// Credentials is the opaque access credential for one server. Every field
// is required; a record with any empty field is treated as corrupt rather
// than partially usable.
type Credentials struct {
	// ServerBaseURL is the absolute base URL of the server the credential
	// was issued by, e.g. "https://mastodon.example".
	ServerBaseURL string `toml:"server_base_url"`

	// ClientID and ClientSecret identify the registered OAuth application.
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`

	// AccessToken is the bearer token used on all authenticated calls.
	AccessToken string `toml:"access_token"`

	// Scopes lists the OAuth scopes the token was granted.
	Scopes []string `toml:"scopes"`
}

// Validate reports the first missing field, or nil when the record is
// complete.
func (c *Credentials) Validate() error {
	var missing []string
	if c.ServerBaseURL == "" {
		missing = append(missing, "server_base_url")
	}
	if c.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "client_secret")
	}
	if c.AccessToken == "" {
		missing = append(missing, "access_token")
	}
	if len(c.Scopes) == 0 {
		missing = append(missing, "scopes")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing fields: %s", strings.Join(missing, ", "))
	}
	return nil
}
