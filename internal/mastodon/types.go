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

package mastodon

import "time"

// Status represents a single post on a timeline. Only the fields this tool
// reads are modeled; the server returns many more, and the cursor treats
// the whole record as opaque: statuses are replaced wholesale on each
// traversal, never merged.
type Status struct {
	ID        string    `json:"id"`
	URI       string    `json:"uri"`
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Content   string    `json:"content"`
	Account   Account   `json:"account"`
}

// Account represents the author of a status or the owner of the verified
// credential.
type Account struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Acct        string `json:"acct"`
	DisplayName string `json:"display_name"`
	URL         string `json:"url"`
}

// Application is the server's response to an app registration. The client
// id and secret are the OAuth client credentials used for the
// authorization-code exchange.
type Application struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Website      string `json:"website,omitempty"`
	RedirectURI  string `json:"redirect_uri"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// AppConfig describes the application to register with a server.
type AppConfig struct {
	// ClientName is shown to the user on the consent screen.
	ClientName string

	// RedirectURI is the OAuth redirect target. The out-of-band URN
	// ("urn:ietf:wg:oauth:2.0:oob") makes the server display the
	// authorization code instead of redirecting.
	RedirectURI string

	// Scopes is the space-separated scope string to request.
	Scopes string

	// Website is an optional homepage shown alongside the client name.
	Website string
}

// TimelinePage represents one fetched window of a timeline together with
// the locators for the adjacent windows. An empty locator means the server
// did not advertise a page in that direction.
type TimelinePage struct {
	Statuses []Status
	NextURL  string
	PrevURL  string
}

// FetchOptions configures an initial timeline fetch.
type FetchOptions struct {
	// Limit controls how many statuses to fetch per page.
	// Defaults to 20 if not specified, matching the server default.
	Limit int
}

// Default values for fetch operations
const (
	defaultPageLimit = 20
)
