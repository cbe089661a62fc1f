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

// Package timeline implements a bidirectional cursor over a server-side
// paginated feed.
//
// A Cursor holds exactly one fetched page of statuses plus the locators for
// the adjacent pages in each direction. Advancing re-fetches and replaces
// the whole window; nothing is merged or deduplicated across pages.
//
// The load-bearing rule is the boundary behavior: advancing in a direction
// whose locator is absent is a successful no-op that leaves the cursor
// byte-for-byte unchanged. It is not an error, and it must never disturb
// the opposite locator: clearing it would strand the cursor on a page it
// can never leave even though more data exists on the other side.
//
// Cursors are not safe for concurrent use. A session advances one cursor
// from a single goroutine, waiting for each fetch before issuing the next.
package timeline
