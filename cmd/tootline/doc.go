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

// Package main implements the tootline command-line interface.
// The tool signs in to a Mastodon server via OAuth with an out-of-band
// redirect, stores the credential for later runs, and pages through the
// home timeline in either direction.
//
// The CLI supports:
//   - Viewing the home timeline page by page (timeline command)
//   - Fixed page counts (--pages/--back) or interactive n/p/q navigation
//   - Text or NDJSON output, to stdout or a file
//   - Re-authorizing and switching accounts (login command)
//   - Inspecting the stored credential (whoami command)
//
// Usage:
//
//	tootline timeline [flags]
//
// Example:
//
//	tootline timeline --pages 3 --back 1 --format ndjson --output toots.ndjson
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Authorization flow error (registration or code exchange)
//   - 3: Timeline fetch error
//   - 4: Corrupt credential file
package main
