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

// Package logging configures the process-wide structured logger.
//
// A single logger fans out to up to three sinks: a JSON log file for
// machine consumption, a plain-text log file, and stderr for the
// operator. Either file sink can be disabled by leaving its path
// empty. Every record carries a run_id attribute so records from one
// invocation can be correlated across sinks.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// Options controls which sinks are active and how chatty they are.
type Options struct {
	// JSONFile is the path of the JSON sink. Empty disables it.
	JSONFile string

	// TextFile is the path of the text sink. Empty disables it.
	TextFile string

	// Verbose lowers the stderr sink to debug level. The file sinks
	// always record at debug level.
	Verbose bool

	// StderrWriter overrides os.Stderr, for tests.
	StderrWriter io.Writer
}

// Setup builds the logger described by opts and installs it as the
// slog default. The returned close function flushes and closes the
// file sinks and must be called before the process exits.
func Setup(opts Options) (*slog.Logger, func() error, error) {
	var handlers []slog.Handler
	var files []*os.File

	closeAll := func() error {
		var errs []error
		for _, f := range files {
			if err := f.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	if opts.JSONFile != "" {
		f, err := os.OpenFile(opts.JSONFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening JSON log file: %w", err)
		}
		files = append(files, f)
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	if opts.TextFile != "" {
		f, err := os.OpenFile(opts.TextFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("opening text log file: %w", err)
		}
		files = append(files, f)
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	stderr := opts.StderrWriter
	if stderr == nil {
		stderr = os.Stderr
	}
	stderrLevel := slog.LevelInfo
	if opts.Verbose {
		stderrLevel = slog.LevelDebug
	}
	handlers = append(handlers, slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: stderrLevel}))

	logger := slog.New(newMultiHandler(handlers...)).With("run_id", uuid.NewString())
	slog.SetDefault(logger)
	return logger, closeAll, nil
}

// multiHandler fans each record out to every child handler.
type multiHandler struct {
	handlers []slog.Handler
}

func newMultiHandler(handlers ...slog.Handler) *multiHandler {
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, h := range m.handlers {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	children := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		children[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: children}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	children := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		children[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: children}
}
