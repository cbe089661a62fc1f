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
	"fmt"
	"io"

	"github.com/tootline/tootline/internal/mastodon"
)

// StatusWriter defines the interface for writing timeline statuses.
// This abstraction allows different output formats (text, NDJSON) to
// share the rendering loop in the command layer.
type StatusWriter interface {
	// WriteStatus writes a single status to the output.
	// The record should be immediately flushed to avoid memory accumulation.
	WriteStatus(status mastodon.Status) error

	// WritePageBreak marks the boundary between fetched pages. Formats
	// that have no page concept may implement it as a no-op.
	WritePageBreak(page int) error

	// Close closes the underlying writer and releases any resources.
	Close() error
}

// NewWriter returns a StatusWriter for the named format writing to w.
func NewWriter(format string, w io.Writer) (StatusWriter, error) {
	switch format {
	case "text":
		return NewTextWriter(w), nil
	case "ndjson":
		return NewNDJSONWriter(w), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}
