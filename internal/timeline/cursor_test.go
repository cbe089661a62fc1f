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
	"errors"
	"fmt"
	"testing"

	tooterrors "github.com/tootline/tootline/internal/errors"
	"github.com/tootline/tootline/internal/mastodon"
)

// snapshot captures the full observable cursor state for unchanged checks.
type snapshot struct {
	uris []string
	next string
	prev string
}

func snap(c *Cursor) snapshot {
	s := snapshot{next: c.NextLocator(), prev: c.PrevLocator()}
	for _, item := range c.Items() {
		s.uris = append(s.uris, item.URI)
	}
	return s
}

func (s snapshot) equal(other snapshot) bool {
	if s.next != other.next || s.prev != other.prev || len(s.uris) != len(other.uris) {
		return false
	}
	for i := range s.uris {
		if s.uris[i] != other.uris[i] {
			return false
		}
	}
	return true
}

func mustFetchInitial(t *testing.T, client mastodon.Client) *Cursor {
	t.Helper()
	cursor, err := FetchInitial(context.Background(), client, mastodon.FetchOptions{}, nil)
	if err != nil {
		t.Fatalf("FetchInitial failed: %v", err)
	}
	return cursor
}

func TestFetchInitial(t *testing.T) {
	client := mastodon.NewMockClient()
	cursor := mustFetchInitial(t, client)

	if len(cursor.Items()) != 3 {
		t.Errorf("got %d items, want 3", len(cursor.Items()))
	}
	if cursor.State() != StateStart {
		t.Errorf("State() = %q, want %q", cursor.State(), StateStart)
	}
	if !cursor.HasNext() || cursor.HasPrev() {
		t.Errorf("HasNext=%v HasPrev=%v, want true/false", cursor.HasNext(), cursor.HasPrev())
	}
}

func TestFetchInitial_Error(t *testing.T) {
	client := mastodon.NewMockClient()
	client.ShouldFailNetwork = true

	_, err := FetchInitial(context.Background(), client, mastodon.FetchOptions{}, nil)
	if err == nil {
		t.Fatal("FetchInitial succeeded, want error")
	}
	if !errors.Is(err, tooterrors.ErrFetchFailed) {
		t.Errorf("error %v does not wrap ErrFetchFailed", err)
	}
}

// Advancing toward a direction with no locator must leave the cursor
// bit-for-bit unchanged and report success. This covers the Start boundary
// (prev absent) and, after walking to the oldest page, the End boundary
// (next absent).
func TestAdvance_BoundaryNoOp(t *testing.T) {
	ctx := context.Background()

	t.Run("prev at start", func(t *testing.T) {
		cursor := mustFetchInitial(t, mastodon.NewMockClient())
		before := snap(cursor)

		moved, err := cursor.Advance(ctx, Prev)
		if err != nil {
			t.Fatalf("Advance(Prev) at start returned error: %v", err)
		}
		if moved {
			t.Error("Advance(Prev) at start reported movement")
		}
		if !snap(cursor).equal(before) {
			t.Errorf("cursor changed: before=%+v after=%+v", before, snap(cursor))
		}
	})

	t.Run("next at end", func(t *testing.T) {
		cursor := mustFetchInitial(t, mastodon.NewMockClient())
		for i := 0; i < 2; i++ {
			if moved, err := cursor.Advance(ctx, Next); err != nil || !moved {
				t.Fatalf("walking to end: moved=%v err=%v", moved, err)
			}
		}
		if cursor.State() != StateEnd {
			t.Fatalf("State() = %q, want %q", cursor.State(), StateEnd)
		}
		before := snap(cursor)

		moved, err := cursor.Advance(ctx, Next)
		if err != nil {
			t.Fatalf("Advance(Next) at end returned error: %v", err)
		}
		if moved {
			t.Error("Advance(Next) at end reported movement")
		}
		if !snap(cursor).equal(before) {
			t.Errorf("cursor changed: before=%+v after=%+v", before, snap(cursor))
		}
		// The prev locator must survive the boundary no-op so the cursor
		// can still leave the page.
		if !cursor.HasPrev() {
			t.Error("prev locator lost at end boundary")
		}
	})
}

// One step forward then one step back must reproduce the initial items on
// a stationary feed.
func TestAdvance_RoundTrip(t *testing.T) {
	ctx := context.Background()
	cursor := mustFetchInitial(t, mastodon.NewMockClient())
	initial := snap(cursor)

	if moved, err := cursor.Advance(ctx, Next); err != nil || !moved {
		t.Fatalf("Advance(Next): moved=%v err=%v", moved, err)
	}
	if moved, err := cursor.Advance(ctx, Prev); err != nil || !moved {
		t.Fatalf("Advance(Prev): moved=%v err=%v", moved, err)
	}

	after := snap(cursor)
	if len(after.uris) != len(initial.uris) {
		t.Fatalf("round trip returned %d items, want %d", len(after.uris), len(initial.uris))
	}
	for i := range after.uris {
		if after.uris[i] != initial.uris[i] {
			t.Errorf("item %d = %q, want %q", i, after.uris[i], initial.uris[i])
		}
	}
}

// Two consecutive forward steps must land on two different pages while the
// server advertises more data.
func TestAdvance_NoStuckCursor(t *testing.T) {
	ctx := context.Background()
	cursor := mustFetchInitial(t, mastodon.NewMockClient())

	if moved, err := cursor.Advance(ctx, Next); err != nil || !moved {
		t.Fatalf("first Advance(Next): moved=%v err=%v", moved, err)
	}
	first := snap(cursor)

	if moved, err := cursor.Advance(ctx, Next); err != nil || !moved {
		t.Fatalf("second Advance(Next): moved=%v err=%v", moved, err)
	}
	second := snap(cursor)

	if first.equal(second) {
		t.Error("second Advance(Next) reproduced the first page")
	}
	if len(second.uris) > 0 && len(first.uris) > 0 && second.uris[0] == first.uris[0] {
		t.Errorf("cursor stuck: both pages start at %q", second.uris[0])
	}
}

// The concrete scenario: initial [A,B,C] with next="tok1", prev absent.
// Advance(Prev) is an unchanged no-op; Advance(Next) replaces the window
// wholesale with [D,E] and the new locators.
func TestAdvance_ConcreteScenario(t *testing.T) {
	abc := []mastodon.Status{{URI: "A"}, {URI: "B"}, {URI: "C"}}
	de := []mastodon.Status{{URI: "D"}, {URI: "E"}}

	client := &mastodon.MockClient{
		InitialPage: &mastodon.TimelinePage{Statuses: abc, NextURL: "tok1"},
		Pages: map[string]*mastodon.TimelinePage{
			"tok1": {Statuses: de, NextURL: "tok2", PrevURL: "tok0"},
		},
	}

	ctx := context.Background()
	cursor := mustFetchInitial(t, client)

	moved, err := cursor.Advance(ctx, Prev)
	if err != nil || moved {
		t.Fatalf("Advance(Prev): moved=%v err=%v, want no-op success", moved, err)
	}
	got := snap(cursor)
	want := snapshot{uris: []string{"A", "B", "C"}, next: "tok1", prev: ""}
	if !got.equal(want) {
		t.Fatalf("after no-op: %+v, want %+v", got, want)
	}

	moved, err = cursor.Advance(ctx, Next)
	if err != nil || !moved {
		t.Fatalf("Advance(Next): moved=%v err=%v", moved, err)
	}
	got = snap(cursor)
	want = snapshot{uris: []string{"D", "E"}, next: "tok2", prev: "tok0"}
	if !got.equal(want) {
		t.Fatalf("after Advance(Next): %+v, want %+v", got, want)
	}
	if cursor.State() != StateMiddle {
		t.Errorf("State() = %q, want %q", cursor.State(), StateMiddle)
	}
}

// A fetch failure propagates ErrFetchFailed and leaves the prior window
// fully intact.
func TestAdvance_FetchErrorLeavesStateIntact(t *testing.T) {
	ctx := context.Background()
	client := mastodon.NewMockClient()
	cursor := mustFetchInitial(t, client)
	before := snap(cursor)

	client.ShouldFailNetwork = true
	moved, err := cursor.Advance(ctx, Next)
	if err == nil {
		t.Fatal("Advance(Next) succeeded, want fetch error")
	}
	if moved {
		t.Error("Advance reported movement despite error")
	}
	if !errors.Is(err, tooterrors.ErrFetchFailed) {
		t.Errorf("error %v does not wrap ErrFetchFailed", err)
	}
	if !snap(cursor).equal(before) {
		t.Errorf("cursor changed on error: before=%+v after=%+v", before, snap(cursor))
	}

	// The cursor must still be able to advance once the failure clears.
	client.ShouldFailNetwork = false
	if moved, err := cursor.Advance(ctx, Next); err != nil || !moved {
		t.Errorf("Advance after recovery: moved=%v err=%v", moved, err)
	}
}

// An explicitly empty page is a successful advance: no items, locators
// applied verbatim from the response.
func TestAdvance_EmptyPage(t *testing.T) {
	client := &mastodon.MockClient{
		InitialPage: &mastodon.TimelinePage{
			Statuses: []mastodon.Status{{URI: "A"}},
			NextURL:  "empty-page",
		},
		Pages: map[string]*mastodon.TimelinePage{
			"empty-page": {Statuses: []mastodon.Status{}, NextURL: "tok2", PrevURL: "tok0"},
		},
	}

	cursor := mustFetchInitial(t, client)
	moved, err := cursor.Advance(context.Background(), Next)
	if err != nil {
		t.Fatalf("Advance onto empty page returned error: %v", err)
	}
	if !moved {
		t.Error("Advance onto empty page reported no movement")
	}
	if len(cursor.Items()) != 0 {
		t.Errorf("got %d items, want 0", len(cursor.Items()))
	}
	if cursor.NextLocator() != "tok2" || cursor.PrevLocator() != "tok0" {
		t.Errorf("locators = (%q, %q), want (tok2, tok0)",
			cursor.NextLocator(), cursor.PrevLocator())
	}
}

func TestState(t *testing.T) {
	tests := []struct {
		name string
		next string
		prev string
		want State
	}{
		{name: "start", next: "n", prev: "", want: StateStart},
		{name: "middle", next: "n", prev: "p", want: StateMiddle},
		{name: "end", next: "", prev: "p", want: StateEnd},
		{name: "solo", next: "", prev: "", want: StateSolo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mastodon.MockClient{
				InitialPage: &mastodon.TimelinePage{
					Statuses: []mastodon.Status{{URI: "A"}},
					NextURL:  tt.next,
					PrevURL:  tt.prev,
				},
			}
			cursor := mustFetchInitial(t, client)
			if got := cursor.State(); got != tt.want {
				t.Errorf("State() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Traversing the whole mock feed forward and back again exercises every
// state transition without ever hitting an error.
func TestAdvance_FullTraversal(t *testing.T) {
	ctx := context.Background()
	cursor := mustFetchInitial(t, mastodon.NewMockClient())

	wantStates := []State{StateStart, StateMiddle, StateEnd}
	for i, want := range wantStates {
		if got := cursor.State(); got != want {
			t.Fatalf("step %d: State() = %q, want %q", i, got, want)
		}
		moved, err := cursor.Advance(ctx, Next)
		if err != nil {
			t.Fatalf("step %d: Advance(Next) error: %v", i, err)
		}
		if wantMoved := i < len(wantStates)-1; moved != wantMoved {
			t.Fatalf("step %d: moved=%v, want %v", i, moved, wantMoved)
		}
	}

	for i := 0; cursor.HasPrev(); i++ {
		if i > 10 {
			t.Fatal("backward traversal did not terminate")
		}
		if moved, err := cursor.Advance(ctx, Prev); err != nil || !moved {
			t.Fatalf("backward step %d: moved=%v err=%v", i, moved, err)
		}
	}
	if cursor.State() != StateStart {
		t.Errorf("final State() = %q, want %q", cursor.State(), StateStart)
	}
}

func TestDirectionString(t *testing.T) {
	if Next.String() != "next" || Prev.String() != "prev" {
		t.Errorf("Direction strings = %q, %q", Next.String(), Prev.String())
	}
	if got := Direction(42).String(); got != fmt.Sprintf("direction(%d)", 42) {
		t.Errorf("unknown direction string = %q", got)
	}
}
