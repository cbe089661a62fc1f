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

import (
	"context"
	"fmt"
	"time"

	tooterrors "github.com/tootline/tootline/internal/errors"
)

// MockClient is a mock implementation of the Client interface for testing.
// By default it serves a stationary three-page feed so cursor tests can
// traverse forward and backward against reproducible fixtures.
type MockClient struct {
	// Account returned by VerifyCredentials
	Account *Account

	// InitialPage returned by HomeTimeline
	InitialPage *TimelinePage

	// Pages returned by TimelineAt, keyed by locator URL
	Pages map[string]*TimelinePage

	// Error to return from every call
	Error error

	// Behavior flags
	ShouldFailAuth    bool
	ShouldFailNetwork bool

	// Track calls for verification
	CallCount int
	LastURL   string
	LastOpts  FetchOptions
}

// Locator URLs used by the default mock feed.
const (
	MockOlderPage1URL = "https://mock.example/api/v1/timelines/home?max_id=7"
	MockOlderPage2URL = "https://mock.example/api/v1/timelines/home?max_id=4"
	MockNewerPage1URL = "https://mock.example/api/v1/timelines/home?min_id=6"
	MockNewerPage2URL = "https://mock.example/api/v1/timelines/home?min_id=3"
)

// NewMockClient creates a mock client serving the default stationary feed:
// nine statuses split across three pages, newest first. The initial page
// has no prev locator and the oldest page has no next locator, giving
// tests both traversal boundaries.
func NewMockClient() *MockClient {
	newest := MockStatuses(9, 7)
	middle := MockStatuses(6, 4)
	oldest := MockStatuses(3, 1)

	return &MockClient{
		Account: &Account{
			ID:       "1",
			Username: "tester",
			Acct:     "tester@mock.example",
		},
		InitialPage: &TimelinePage{
			Statuses: newest,
			NextURL:  MockOlderPage1URL,
		},
		Pages: map[string]*TimelinePage{
			MockOlderPage1URL: {
				Statuses: middle,
				NextURL:  MockOlderPage2URL,
				PrevURL:  MockNewerPage1URL,
			},
			MockOlderPage2URL: {
				Statuses: oldest,
				PrevURL:  MockNewerPage2URL,
			},
			MockNewerPage1URL: {
				Statuses: newest,
				NextURL:  MockOlderPage1URL,
			},
			MockNewerPage2URL: {
				Statuses: middle,
				NextURL:  MockOlderPage2URL,
				PrevURL:  MockNewerPage1URL,
			},
		},
	}
}

// VerifyCredentials implements the Client interface
func (m *MockClient) VerifyCredentials(ctx context.Context) (*Account, error) {
	m.CallCount++
	if err := m.fail(ctx); err != nil {
		return nil, err
	}
	if m.Account == nil {
		return nil, fmt.Errorf("no mock account configured: %w", tooterrors.ErrFetchFailed)
	}
	return m.Account, nil
}

// HomeTimeline implements the Client interface
func (m *MockClient) HomeTimeline(ctx context.Context, opts FetchOptions) (*TimelinePage, error) {
	m.CallCount++
	m.LastOpts = opts
	if err := m.fail(ctx); err != nil {
		return nil, err
	}
	if m.InitialPage == nil {
		return nil, fmt.Errorf("no mock initial page configured: %w", tooterrors.ErrFetchFailed)
	}
	return copyPage(m.InitialPage), nil
}

// TimelineAt implements the Client interface
func (m *MockClient) TimelineAt(ctx context.Context, pageURL string) (*TimelinePage, error) {
	m.CallCount++
	m.LastURL = pageURL
	if err := m.fail(ctx); err != nil {
		return nil, err
	}
	page, ok := m.Pages[pageURL]
	if !ok {
		return nil, fmt.Errorf("no mock page at %s: %w", pageURL, tooterrors.ErrFetchFailed)
	}
	return copyPage(page), nil
}

// fail simulates the configured error conditions.
func (m *MockClient) fail(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if m.ShouldFailAuth {
		return fmt.Errorf("server returned 401: the access token is invalid: %w", tooterrors.ErrFetchFailed)
	}
	if m.ShouldFailNetwork {
		return fmt.Errorf("timeline request: dial tcp: connection refused: %w", tooterrors.ErrFetchFailed)
	}
	return m.Error
}

// copyPage returns a shallow copy with its own status slice so callers
// cannot mutate the mock's fixtures.
func copyPage(p *TimelinePage) *TimelinePage {
	out := &TimelinePage{
		NextURL: p.NextURL,
		PrevURL: p.PrevURL,
	}
	out.Statuses = append([]Status(nil), p.Statuses...)
	return out
}

// MockStatuses generates statuses numbered from newest down to oldest,
// inclusive, matching the newest-first order a home timeline returns.
func MockStatuses(newest, oldest int) []Status {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	statuses := make([]Status, 0, newest-oldest+1)
	for i := newest; i >= oldest; i-- {
		statuses = append(statuses, Status{
			ID:        fmt.Sprintf("%d", i),
			URI:       fmt.Sprintf("https://mock.example/users/tester/statuses/%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Content:   fmt.Sprintf("status %d", i),
			Account: Account{
				ID:       "1",
				Username: "tester",
				Acct:     "tester@mock.example",
			},
		})
	}
	return statuses
}
