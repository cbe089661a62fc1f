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

// Package metadata tracks statistics about a timeline session and
// persists them as a JSON report. The report records the session
// parameters, the number of pages and statuses fetched, the date range
// of the statuses seen, and the API call count, giving each run an
// auditable record that external tools can analyze.
package metadata

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/tootline/tootline/internal/mastodon"
)

// Tracker collects statistics during a timeline session. Create one at
// the start of the session and call its methods as pages arrive.
type Tracker struct {
	startTime    time.Time
	apiCallCount int
	stats        statusStats
}

type statusStats struct {
	totalStatuses int
	pagesFetched  int
	oldestStatus  time.Time
	newestStatus  time.Time
}

// New creates a tracker initialized with the current time.
func New() *Tracker {
	return &Tracker{
		startTime: time.Now(),
	}
}

// IncrementAPICall records that an API call was made. Call this after
// each request to the server, including ones that return empty pages.
func (t *Tracker) IncrementAPICall() {
	t.apiCallCount++
}

// RecordPage updates the running statistics with one fetched page.
// Empty pages still count as a fetched page.
func (t *Tracker) RecordPage(statuses []mastodon.Status) {
	t.stats.pagesFetched++
	t.stats.totalStatuses += len(statuses)

	for _, s := range statuses {
		if t.stats.oldestStatus.IsZero() || s.CreatedAt.Before(t.stats.oldestStatus) {
			t.stats.oldestStatus = s.CreatedAt
		}
		if s.CreatedAt.After(t.stats.newestStatus) {
			t.stats.newestStatus = s.CreatedAt
		}
	}
}

// Generate creates the SessionMetadata record for a completed session.
func (t *Tracker) Generate(toolVersion string, params SessionParams) *SessionMetadata {
	completedAt := time.Now()
	duration := completedAt.Sub(t.startTime)

	return &SessionMetadata{
		ToolVersion: toolVersion,
		SessionID:   uuid.NewString(),
		Parameters:  params,
		Results: SessionResults{
			TotalStatuses: t.stats.totalStatuses,
			PagesFetched:  t.stats.pagesFetched,
			OldestStatus:  t.stats.oldestStatus,
			NewestStatus:  t.stats.newestStatus,
			Duration:      duration.String(),
			APICallCount:  t.apiCallCount,
			StartedAt:     t.startTime,
			CompletedAt:   completedAt,
		},
	}
}

// Save persists a metadata record to the given path. The file is
// written atomically using a temporary file and rename.
func Save(md *SessionMetadata, path string) error {
	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("failed to create metadata file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(md); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to close metadata file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		return fmt.Errorf("failed to save metadata file: %w", err)
	}

	return nil
}

// WriteTo serializes a metadata record as indented JSON to w. Useful
// for writing the report to stdout.
func WriteTo(md *SessionMetadata, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(md)
}
