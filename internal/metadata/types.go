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
	"time"
)

// SessionMetadata is the complete record of one timeline session: what
// was requested, which server answered, and what came back. It is
// written as JSON when the user asks for a session report.
type SessionMetadata struct {
	ToolVersion string         `json:"tool_version"`
	SessionID   string         `json:"session_id"`
	Parameters  SessionParams  `json:"parameters"`
	Results     SessionResults `json:"results"`
}

// SessionParams captures the inputs of a timeline session. They are
// preserved so a session can be reproduced when debugging.
type SessionParams struct {
	Server       string `json:"server"`
	PageSize     int    `json:"page_size"`
	PagesForward int    `json:"pages_forward"`
	PagesBack    int    `json:"pages_back"`
	Interactive  bool   `json:"interactive"`
}

// SessionResults contains statistics about a completed session:
// quantitative metrics (status and page counts, API calls) and
// temporal information (date range of statuses seen, duration).
type SessionResults struct {
	TotalStatuses int       `json:"total_statuses"`
	PagesFetched  int       `json:"pages_fetched"`
	OldestStatus  time.Time `json:"oldest_status_date"`
	NewestStatus  time.Time `json:"newest_status_date"`
	Duration      string    `json:"session_duration"`
	APICallCount  int       `json:"api_calls_made"`
	StartedAt     time.Time `json:"started_at"`
	CompletedAt   time.Time `json:"completed_at"`
}
