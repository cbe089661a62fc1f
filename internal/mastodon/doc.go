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

// Package mastodon provides a client for the Mastodon REST API covering the
// small surface this tool needs: application registration, credential
// verification, and home-timeline fetches with Link-header pagination.
//
// The package includes:
//   - A Client interface for credential verification and timeline fetches
//   - A REST implementation with a bearer-auth transport
//   - RegisterApp for the unauthenticated app-registration call
//   - Mock client for testing
//   - Type definitions for accounts, statuses, and timeline pages
//
// Basic usage:
//
//	client, err := mastodon.NewRESTClient("https://mastodon.example", token)
//	if err != nil {
//	    // Handle error
//	}
//	page, err := client.HomeTimeline(ctx, mastodon.FetchOptions{Limit: 20})
//	if err != nil {
//	    // Handle error
//	}
//	for _, status := range page.Statuses {
//	    // Process status
//	}
//
// Page locators are the opaque URLs the server returns in the Link header
// (rel="next" and rel="prev"); pass them back to TimelineAt to move the
// window in either direction.
package mastodon
