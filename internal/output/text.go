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
	"strings"
	"sync"

	"golang.org/x/net/html"

	"github.com/tootline/tootline/internal/mastodon"
)

// TextWriter renders statuses for a human reader: one block per status
// with the author, timestamp, and the post content with HTML markup
// stripped.
type TextWriter struct {
	mu    sync.Mutex
	out   io.Writer
	count int
}

// NewTextWriter creates a text writer that writes to w.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{out: w}
}

// WriteStatus renders one status block.
func (w *TextWriter) WriteStatus(status mastodon.Status) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	author := status.Account.DisplayName
	if author == "" {
		author = status.Account.Username
	}
	handle := status.Account.Acct
	if handle != "" {
		handle = "@" + handle
	}

	_, err := fmt.Fprintf(w.out, "%s %s\n%s\n%s\n\n",
		author,
		handle,
		status.CreatedAt.Local().Format("2006-01-02 15:04"),
		FlattenHTML(status.Content),
	)
	if err != nil {
		return fmt.Errorf("failed to write status: %w", err)
	}

	w.count++
	return nil
}

// WritePageBreak prints a separator naming the page just shown.
func (w *TextWriter) WritePageBreak(page int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, err := fmt.Fprintf(w.out, "---- page %d ----\n\n", page)
	if err != nil {
		return fmt.Errorf("failed to write page break: %w", err)
	}
	return nil
}

// Count returns the number of statuses written.
func (w *TextWriter) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close is a no-op; the text writer does not own its destination.
func (w *TextWriter) Close() error { return nil }

// FlattenHTML reduces the HTML fragment Mastodon serves as status
// content to plain text. Paragraphs and line breaks become newlines,
// all other markup is dropped, and entities are decoded by the
// tokenizer.
func FlattenHTML(fragment string) string {
	var b strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			b.Write(tokenizer.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == "br" {
				b.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == "p" {
				b.WriteString("\n\n")
			}
		}
	}
}
