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

package metadata

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tootline/tootline/internal/mastodon"
)

func statusAt(id string, created time.Time) mastodon.Status {
	return mastodon.Status{ID: id, CreatedAt: created}
}

func TestTracker_RecordPage(t *testing.T) {
	tracker := New()

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	tracker.RecordPage([]mastodon.Status{
		statusAt("3", base),
		statusAt("2", base.Add(-time.Hour)),
	})
	tracker.RecordPage([]mastodon.Status{
		statusAt("1", base.Add(-2*time.Hour)),
	})
	tracker.RecordPage(nil) // empty page still counts
	tracker.IncrementAPICall()
	tracker.IncrementAPICall()
	tracker.IncrementAPICall()

	md := tracker.Generate("1.2.3", SessionParams{Server: "https://mastodon.example", PageSize: 2})

	if md.ToolVersion != "1.2.3" {
		t.Errorf("ToolVersion = %q", md.ToolVersion)
	}
	if md.SessionID == "" {
		t.Error("SessionID is empty")
	}
	if md.Results.TotalStatuses != 3 {
		t.Errorf("TotalStatuses = %d, want 3", md.Results.TotalStatuses)
	}
	if md.Results.PagesFetched != 3 {
		t.Errorf("PagesFetched = %d, want 3", md.Results.PagesFetched)
	}
	if md.Results.APICallCount != 3 {
		t.Errorf("APICallCount = %d, want 3", md.Results.APICallCount)
	}
	if !md.Results.OldestStatus.Equal(base.Add(-2 * time.Hour)) {
		t.Errorf("OldestStatus = %v", md.Results.OldestStatus)
	}
	if !md.Results.NewestStatus.Equal(base) {
		t.Errorf("NewestStatus = %v", md.Results.NewestStatus)
	}
	if md.Results.CompletedAt.Before(md.Results.StartedAt) {
		t.Error("CompletedAt precedes StartedAt")
	}
}

func TestTracker_GenerateUniqueSessionIDs(t *testing.T) {
	tracker := New()
	a := tracker.Generate("dev", SessionParams{})
	b := tracker.Generate("dev", SessionParams{})
	if a.SessionID == b.SessionID {
		t.Errorf("session ids collide: %q", a.SessionID)
	}
}

func TestSaveAndReload(t *testing.T) {
	tracker := New()
	tracker.RecordPage([]mastodon.Status{statusAt("1", time.Now())})
	md := tracker.Generate("dev", SessionParams{Server: "https://mastodon.example", PagesForward: 3, PagesBack: 1})

	path := filepath.Join(t.TempDir(), "session.json")
	if err := Save(md, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading metadata file: %v", err)
	}
	var reloaded SessionMetadata
	if err := json.Unmarshal(data, &reloaded); err != nil {
		t.Fatalf("metadata file is not valid JSON: %v", err)
	}
	if reloaded.SessionID != md.SessionID {
		t.Errorf("SessionID = %q, want %q", reloaded.SessionID, md.SessionID)
	}
	if reloaded.Parameters.PagesForward != 3 || reloaded.Parameters.PagesBack != 1 {
		t.Errorf("Parameters = %+v", reloaded.Parameters)
	}

	// No temp file left behind.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind after Save")
	}
}

func TestSave_BadPath(t *testing.T) {
	md := New().Generate("dev", SessionParams{})
	err := Save(md, filepath.Join(t.TempDir(), "no-such-dir", "session.json"))
	if err == nil {
		t.Fatal("Save succeeded with unwritable path")
	}
}

func TestWriteTo(t *testing.T) {
	md := New().Generate("dev", SessionParams{Server: "https://mastodon.example"})

	var buf bytes.Buffer
	if err := WriteTo(md, &buf); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	var decoded SessionMetadata
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Parameters.Server != "https://mastodon.example" {
		t.Errorf("Server = %q", decoded.Parameters.Server)
	}
}
