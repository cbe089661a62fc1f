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

package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		want     bool
	}{
		{
			name:     "direct not-found error",
			err:      ErrCredentialsNotFound,
			sentinel: ErrCredentialsNotFound,
			want:     true,
		},
		{
			name:     "wrapped corrupt error",
			err:      fmt.Errorf("loading credentials: %w", ErrCredentialsCorrupt),
			sentinel: ErrCredentialsCorrupt,
			want:     true,
		},
		{
			name:     "not-found is not corrupt",
			err:      ErrCredentialsNotFound,
			sentinel: ErrCredentialsCorrupt,
			want:     false,
		},
		{
			name:     "wrapped fetch error",
			err:      fmt.Errorf("home timeline: %w", ErrFetchFailed),
			sentinel: ErrFetchFailed,
			want:     true,
		},
		{
			name:     "wrapped exchange error",
			err:      fmt.Errorf("oauth token: %w", ErrExchangeFailed),
			sentinel: ErrExchangeFailed,
			want:     true,
		},
		{
			name:     "nil error",
			err:      nil,
			sentinel: ErrFetchFailed,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.sentinel)
			if got != tt.want {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.sentinel, got, tt.want)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrCredentialsNotFound, "no stored credentials found"},
		{ErrCredentialsCorrupt, "stored credentials are corrupt"},
		{ErrRegistrationFailed, "application registration failed"},
		{ErrExchangeFailed, "authorization code exchange failed"},
		{ErrBrowserOpen, "could not open browser"},
		{ErrFetchFailed, "timeline fetch failed"},
		{ErrCredentialsIO, "credential persistence failed"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}
