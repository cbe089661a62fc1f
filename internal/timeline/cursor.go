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

package timeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tootline/tootline/internal/mastodon"
)

// Direction selects which way Advance moves the cursor's window.
type Direction int

const (
	// Next moves toward older statuses (the server's rel="next" link).
	Next Direction = iota

	// Prev moves toward newer statuses (the server's rel="prev" link).
	Prev
)

// String implements fmt.Stringer
func (d Direction) String() string {
	switch d {
	case Next:
		return "next"
	case Prev:
		return "prev"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// State identifies the cursor's position by which locators are present.
// None of these is terminal: a Start or End cursor can still advance in
// the direction whose locator is present.
type State string

const (
	// StateStart has a next locator but no prev locator, typical for the
	// newest page of a feed.
	StateStart State = "start"

	// StateMiddle has locators in both directions.
	StateMiddle State = "middle"

	// StateEnd has a prev locator but no next locator, typical for the
	// oldest page of a feed.
	StateEnd State = "end"

	// StateSolo has no locators at all: the entire feed fits in one page.
	StateSolo State = "solo"
)

// Cursor is a single logical window onto a paginated feed. It holds the
// statuses of the last successful fetch and the opaque locators the server
// returned for the adjacent pages.
type Cursor struct {
	client  mastodon.Client
	logger  *slog.Logger
	items   []mastodon.Status
	nextURL string
	prevURL string
}

// FetchInitial issues the unconditional first fetch, with no locator, and
// returns a cursor positioned on the newest page. A nil logger falls back
// to slog.Default.
func FetchInitial(ctx context.Context, client mastodon.Client, opts mastodon.FetchOptions, logger *slog.Logger) (*Cursor, error) {
	if logger == nil {
		logger = slog.Default()
	}

	page, err := client.HomeTimeline(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("initial timeline fetch: %w", err)
	}

	c := &Cursor{client: client, logger: logger}
	c.apply(page)
	logger.Debug("fetched initial timeline page",
		"items", len(c.items),
		"state", string(c.State()))
	return c, nil
}

// Items returns the statuses of the last successful fetch, in server
// response order. The returned slice is the cursor's own; callers must not
// mutate it.
func (c *Cursor) Items() []mastodon.Status {
	return c.items
}

// NextLocator returns the opaque locator for the next page, or "" when the
// server advertised none.
func (c *Cursor) NextLocator() string {
	return c.nextURL
}

// PrevLocator returns the opaque locator for the previous page, or "" when
// the server advertised none.
func (c *Cursor) PrevLocator() string {
	return c.prevURL
}

// HasNext reports whether the cursor can advance toward older statuses.
func (c *Cursor) HasNext() bool {
	return c.nextURL != ""
}

// HasPrev reports whether the cursor can advance toward newer statuses.
func (c *Cursor) HasPrev() bool {
	return c.prevURL != ""
}

// State reports the cursor's position in the feed.
func (c *Cursor) State() State {
	switch {
	case c.nextURL != "" && c.prevURL != "":
		return StateMiddle
	case c.nextURL != "":
		return StateStart
	case c.prevURL != "":
		return StateEnd
	default:
		return StateSolo
	}
}

// Advance moves the window one page in the given direction.
//
// When the locator for that direction is absent, Advance is a no-op: it
// returns (false, nil) and leaves items and both locators untouched. This
// is a valid, expected condition (asking for the previous page while
// already viewing the newest one), not an error, and it must never be
// conflated with a fetch failure.
//
// When the locator is present, the fetched page replaces the window
// wholesale: items and both locators take whatever the server returned,
// verbatim. A page with an explicitly empty status list is still a
// successful advance; it is logged at warning level and surfaces no items,
// but its locators are applied the same as any other success.
//
// On a fetch failure the cursor is left fully intact and the error is
// propagated.
func (c *Cursor) Advance(ctx context.Context, dir Direction) (bool, error) {
	locator := c.locator(dir)
	if locator == "" {
		c.logger.Debug("no page in this direction, cursor unchanged",
			"direction", dir.String(),
			"state", string(c.State()))
		return false, nil
	}

	page, err := c.client.TimelineAt(ctx, locator)
	if err != nil {
		return false, fmt.Errorf("advancing %s: %w", dir, err)
	}

	if len(page.Statuses) == 0 {
		c.logger.Warn("page exists but returned no items",
			"direction", dir.String())
	}

	c.apply(page)
	c.logger.Debug("advanced timeline cursor",
		"direction", dir.String(),
		"items", len(c.items),
		"state", string(c.State()))
	return true, nil
}

// locator returns the URL for the requested direction, "" when absent.
func (c *Cursor) locator(dir Direction) string {
	if dir == Next {
		return c.nextURL
	}
	return c.prevURL
}

// apply replaces the window with a fetched page. The latest response is
// trusted verbatim, locators included.
func (c *Cursor) apply(page *mastodon.TimelinePage) {
	c.items = page.Statuses
	c.nextURL = page.NextURL
	c.prevURL = page.PrevURL
}
