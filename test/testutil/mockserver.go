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

// Package testutil provides common test helpers for tootline
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"
)

// Defaults used by the fake instance.
const (
	MockAuthCode    = "s3cret-code"
	MockAccessToken = "mock-access-token"
	MockClientID    = "mock-client-id"
	MockClientSec   = "mock-client-secret"
)

// MastodonServer is a fake Mastodon instance backed by httptest. It
// implements app registration, the OAuth token exchange, credential
// verification, and a home timeline paginated with Link headers over a
// fixed feed of statuses.
type MastodonServer struct {
	*httptest.Server

	// FeedSize is the number of statuses in the feed, newest id first.
	FeedSize int

	// PageSize caps statuses per timeline response.
	PageSize int

	RequestCount int32
	TokenCount   int32
}

// NewMastodonServer starts a fake instance with a nine-status feed
// served three per page. Close is registered as a test cleanup.
func NewMastodonServer(t *testing.T) *MastodonServer {
	t.Helper()

	s := &MastodonServer{
		FeedSize: 9,
		PageSize: 3,
	}

	mux := http.NewServeMux()
	// Method-restricted registration compatible with Go 1.21, whose
	// ServeMux predates "METHOD /path" patterns.
	handle := func(method, path string, h http.HandlerFunc) {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != method {
				http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
				return
			}
			h(w, r)
		})
	}
	handle(http.MethodPost, "/api/v1/apps", s.handleApps)
	handle(http.MethodPost, "/oauth/token", s.handleToken)
	handle(http.MethodGet, "/api/v1/accounts/verify_credentials", s.handleVerify)
	handle(http.MethodGet, "/api/v1/timelines/home", s.handleTimeline)

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func (s *MastodonServer) handleApps(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&s.RequestCount, 1)

	if err := r.ParseForm(); err != nil || r.FormValue("client_name") == "" {
		writeAPIError(w, http.StatusUnprocessableEntity, "Validation failed: Name can't be blank")
		return
	}

	writeJSON(w, map[string]string{
		"id":            "1",
		"name":          r.FormValue("client_name"),
		"redirect_uri":  r.FormValue("redirect_uris"),
		"client_id":     MockClientID,
		"client_secret": MockClientSec,
	})
}

func (s *MastodonServer) handleToken(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&s.RequestCount, 1)
	atomic.AddInt32(&s.TokenCount, 1)

	if err := r.ParseForm(); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if r.FormValue("code") != MockAuthCode || r.FormValue("client_id") != MockClientID {
		writeAPIError(w, http.StatusUnauthorized, "invalid_grant")
		return
	}

	writeJSON(w, map[string]any{
		"access_token": MockAccessToken,
		"token_type":   "Bearer",
		"scope":        "read",
		"created_at":   time.Now().Unix(),
	})
}

func (s *MastodonServer) handleVerify(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&s.RequestCount, 1)

	if !s.authorized(r) {
		writeAPIError(w, http.StatusUnauthorized, "The access token is invalid")
		return
	}

	writeJSON(w, map[string]string{
		"id":           "1",
		"username":     "tester",
		"acct":         "tester",
		"display_name": "Test User",
		"url":          s.URL + "/@tester",
	})
}

// handleTimeline pages a fixed feed of FeedSize statuses, ids FeedSize
// down to 1, newest first. max_id selects strictly older statuses,
// min_id strictly newer ones, matching Mastodon's query semantics. The
// Link header advertises next/prev only when statuses exist in that
// direction.
func (s *MastodonServer) handleTimeline(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&s.RequestCount, 1)

	if !s.authorized(r) {
		writeAPIError(w, http.StatusUnauthorized, "The access token is invalid")
		return
	}

	limit := s.PageSize
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n < limit {
			limit = n
		}
	}

	// Highest id present in the response window.
	first := s.FeedSize
	if v := r.URL.Query().Get("max_id"); v != "" {
		maxID, err := strconv.Atoi(v)
		if err != nil {
			writeAPIError(w, http.StatusBadRequest, "invalid max_id")
			return
		}
		first = maxID - 1
	} else if v := r.URL.Query().Get("min_id"); v != "" {
		minID, err := strconv.Atoi(v)
		if err != nil {
			writeAPIError(w, http.StatusBadRequest, "invalid min_id")
			return
		}
		first = minID + limit
		if first > s.FeedSize {
			first = s.FeedSize
		}
		if first <= minID {
			first = 0 // nothing newer
		}
	}

	last := first - limit + 1
	if last < 1 {
		last = 1
	}

	statuses := []map[string]any{}
	if first >= 1 {
		for id := first; id >= last; id-- {
			statuses = append(statuses, s.status(id))
		}
	}

	var links []string
	if len(statuses) > 0 && last > 1 {
		links = append(links, fmt.Sprintf(`<%s/api/v1/timelines/home?max_id=%d>; rel="next"`, s.URL, last))
	}
	if len(statuses) > 0 && first < s.FeedSize {
		links = append(links, fmt.Sprintf(`<%s/api/v1/timelines/home?min_id=%d>; rel="prev"`, s.URL, first))
	}
	if len(links) > 0 {
		w.Header().Set("Link", joinLinks(links))
	}

	writeJSON(w, statuses)
}

func (s *MastodonServer) status(id int) map[string]any {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(id) * time.Hour)
	return map[string]any{
		"id":         strconv.Itoa(id),
		"uri":        fmt.Sprintf("%s/users/tester/statuses/%d", s.URL, id),
		"url":        fmt.Sprintf("%s/@tester/%d", s.URL, id),
		"created_at": created.Format(time.RFC3339),
		"content":    fmt.Sprintf("<p>status %d</p>", id),
		"account": map[string]string{
			"id":           "1",
			"username":     "tester",
			"acct":         "tester",
			"display_name": "Test User",
		},
	}
}

func (s *MastodonServer) authorized(r *http.Request) bool {
	return r.Header.Get("Authorization") == "Bearer "+MockAccessToken
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func joinLinks(links []string) string {
	out := links[0]
	for _, l := range links[1:] {
		out += ", " + l
	}
	return out
}
