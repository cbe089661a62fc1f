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

// Package errors defines sentinel errors for consistent error handling across the application.
// These errors map to specific exit codes in the CLI for proper scripting support.
package errors

import "errors"

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrCredentialsNotFound indicates no credential file exists at the
	// resolved path. Expected on a first run; triggers the authorization
	// bootstrap rather than aborting.
	ErrCredentialsNotFound = errors.New("no stored credentials found")

	// ErrCredentialsCorrupt indicates a credential file exists but cannot be
	// parsed. Distinct from ErrCredentialsNotFound so the CLI surfaces a
	// diagnostic instead of silently re-registering.
	// Maps to exit code 4.
	ErrCredentialsCorrupt = errors.New("stored credentials are corrupt")

	// ErrRegistrationFailed indicates the server rejected the application
	// registration or was unreachable during it.
	// Maps to exit code 2.
	ErrRegistrationFailed = errors.New("application registration failed")

	// ErrExchangeFailed indicates the authorization code was rejected or
	// expired during the token exchange.
	// Maps to exit code 2.
	ErrExchangeFailed = errors.New("authorization code exchange failed")

	// ErrBrowserOpen indicates the authorize URL could not be opened in a
	// browser. Non-fatal: the flow continues with the URL printed for
	// manual navigation.
	ErrBrowserOpen = errors.New("could not open browser")

	// ErrFetchFailed indicates a transport or auth failure on a timeline
	// request.
	// Maps to exit code 3.
	ErrFetchFailed = errors.New("timeline fetch failed")

	// ErrCredentialsIO indicates the credential file could not be written.
	ErrCredentialsIO = errors.New("credential persistence failed")
)
