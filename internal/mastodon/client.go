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

import "context"

// Client defines the interface for the authenticated Mastodon API calls
// this tool makes. This interface allows for easy mocking in tests.
type Client interface {
	// VerifyCredentials checks the access token against the server and
	// returns the account it belongs to.
	VerifyCredentials(ctx context.Context) (*Account, error)

	// HomeTimeline retrieves the newest page of the user's home timeline.
	// This is the unconditional initial fetch: no locator is sent, and the
	// returned page carries the locators for subsequent traversal.
	HomeTimeline(ctx context.Context, opts FetchOptions) (*TimelinePage, error)

	// TimelineAt retrieves the timeline page identified by a locator URL
	// previously returned in a TimelinePage. The locator is treated as
	// opaque; callers must not construct or modify it.
	TimelineAt(ctx context.Context, pageURL string) (*TimelinePage, error)
}
