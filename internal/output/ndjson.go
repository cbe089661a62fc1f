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

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/tootline/tootline/internal/mastodon"
)

// NDJSONWriter streams statuses as newline-delimited JSON, one status
// per line. It never accumulates records in memory.
type NDJSONWriter struct {
	mu        sync.Mutex
	encoder   *json.Encoder
	count     int
	closeFunc func() error
}

// NewNDJSONWriter creates an NDJSON writer that writes to w.
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	return &NDJSONWriter{encoder: json.NewEncoder(w)}
}

// NewNDJSONFileWriter creates an NDJSON writer that writes to a file.
// The caller must call Close() when done.
func NewNDJSONFileWriter(filename string) (*NDJSONWriter, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &NDJSONWriter{
		encoder:   json.NewEncoder(file),
		closeFunc: file.Close,
	}, nil
}

// WriteStatus writes a single status as one JSON line, flushed
// immediately.
func (w *NDJSONWriter) WriteStatus(status mastodon.Status) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.encoder.Encode(status); err != nil {
		return fmt.Errorf("failed to write status: %w", err)
	}

	w.count++
	return nil
}

// WritePageBreak is a no-op: NDJSON consumers see a flat stream.
func (w *NDJSONWriter) WritePageBreak(int) error { return nil }

// Count returns the number of statuses written.
func (w *NDJSONWriter) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close closes the underlying writer if it's a file.
func (w *NDJSONWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closeFunc != nil {
		return w.closeFunc()
	}
	return nil
}
