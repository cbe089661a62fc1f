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

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tootline/tootline/internal/mastodon"
	"github.com/tootline/tootline/internal/metadata"
	"github.com/tootline/tootline/internal/output"
	"github.com/tootline/tootline/internal/timeline"
	"github.com/tootline/tootline/pkg/version"
)

func newTimelineCommand(configPath *string, verbose *bool) *cobra.Command {
	var (
		limit        int
		outputFile   string
		format       string
		pagesForward int
		pagesBack    int
		interactive  bool
		metadataFile string
	)

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Show your home timeline",
		Long: `Show your home timeline, one page at a time.

By default the newest page is shown, then a fixed number of older and
newer pages (--pages, --back). With --interactive you steer instead:
'n' moves to older statuses, 'p' back toward newer ones, 'q' quits.

Moving past either end of the timeline is a no-op: the shown page and
both page locators stay exactly as they were.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setupApp(*configPath, *verbose)
			if err != nil {
				return err
			}
			defer app.close()

			if limit == 0 {
				limit = app.cfg.Defaults.PageSize
			}
			if format == "" {
				format = app.cfg.Defaults.OutputFormat
			}

			return runTimeline(cmd.Context(), app, timelineOptions{
				limit:        limit,
				outputFile:   outputFile,
				format:       format,
				pagesForward: pagesForward,
				pagesBack:    pagesBack,
				interactive:  interactive,
				metadataFile: metadataFile,
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Statuses per page (default: from config)")
	cmd.Flags().StringVar(&outputFile, "output", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&format, "format", "", "Output format: text or ndjson (default: from config)")
	cmd.Flags().IntVar(&pagesForward, "pages", 3, "Older pages to fetch after the initial page")
	cmd.Flags().IntVar(&pagesBack, "back", 1, "Newer pages to fetch after paging older")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Navigate with n/p/q instead of fixed page counts")
	cmd.Flags().StringVar(&metadataFile, "metadata", "", "Write a JSON session report to this file")

	return cmd
}

type timelineOptions struct {
	limit        int
	outputFile   string
	format       string
	pagesForward int
	pagesBack    int
	interactive  bool
	metadataFile string
}

func runTimeline(ctx context.Context, app *app, opts timelineOptions) error {
	writer, err := newStatusWriter(opts)
	if err != nil {
		return err
	}
	defer writer.Close()

	sess, err := app.bootstrap.Run(ctx)
	if err != nil {
		return err
	}

	tracker := metadata.New()

	fetchCtx, cancel := app.apiContext(ctx)
	cursor, err := timeline.FetchInitial(fetchCtx, sess.Client, mastodon.FetchOptions{Limit: opts.limit}, app.logger)
	cancel()
	if err != nil {
		return err
	}
	tracker.IncrementAPICall()
	tracker.RecordPage(cursor.Items())

	pageNum := 1
	if err := writePage(writer, pageNum, cursor.Items()); err != nil {
		return err
	}

	nav := &navigator{app: app, cursor: cursor, tracker: tracker, writer: writer, pageNum: pageNum}
	if opts.interactive {
		err = nav.interactive(ctx)
	} else {
		err = nav.scripted(ctx, opts.pagesForward, opts.pagesBack)
	}
	if err != nil {
		return err
	}

	return writeSessionReport(app, tracker, opts, sess.Credentials.ServerBaseURL)
}

// navigator moves the cursor and renders each page it lands on.
type navigator struct {
	app     *app
	cursor  *timeline.Cursor
	tracker *metadata.Tracker
	writer  output.StatusWriter
	pageNum int
}

// step advances one page and renders it. A boundary no-op renders
// nothing and reports moved=false.
func (n *navigator) step(ctx context.Context, dir timeline.Direction) (bool, error) {
	fetchCtx, cancel := n.app.apiContext(ctx)
	moved, err := n.cursor.Advance(fetchCtx, dir)
	cancel()
	if err != nil {
		return false, err
	}
	if !moved {
		return false, nil
	}

	n.tracker.IncrementAPICall()
	n.tracker.RecordPage(n.cursor.Items())
	n.pageNum++
	return true, writePage(n.writer, n.pageNum, n.cursor.Items())
}

// scripted pages older `forward` times, then newer `back` times,
// stopping early at timeline boundaries.
func (n *navigator) scripted(ctx context.Context, forward, back int) error {
	for i := 0; i < forward; i++ {
		moved, err := n.step(ctx, timeline.Next)
		if err != nil {
			return err
		}
		if !moved {
			fmt.Fprintln(os.Stderr, "Reached the oldest available page.")
			break
		}
	}

	for i := 0; i < back; i++ {
		moved, err := n.step(ctx, timeline.Prev)
		if err != nil {
			return err
		}
		if !moved {
			fmt.Fprintln(os.Stderr, "Reached the newest available page.")
			break
		}
	}

	return nil
}

// interactive reads single-letter commands until the user quits or
// input ends.
func (n *navigator) interactive(ctx context.Context) error {
	for {
		fmt.Fprint(os.Stderr, "[n]ext (older) / [p]rev (newer) / [q]uit > ")
		line, err := n.app.stdin.ReadString('\n')
		cmd := strings.ToLower(strings.TrimSpace(line))
		if err != nil && cmd == "" {
			return nil // EOF
		}

		switch cmd {
		case "n", "next":
			moved, stepErr := n.step(ctx, timeline.Next)
			if stepErr != nil {
				return stepErr
			}
			if !moved {
				fmt.Fprintln(os.Stderr, "Already at the oldest available page.")
			}
		case "p", "prev":
			moved, stepErr := n.step(ctx, timeline.Prev)
			if stepErr != nil {
				return stepErr
			}
			if !moved {
				fmt.Fprintln(os.Stderr, "Already at the newest available page.")
			}
		case "q", "quit":
			return nil
		case "":
			// Bare enter, re-prompt.
		default:
			fmt.Fprintf(os.Stderr, "Unknown command %q\n", cmd)
		}

		if err != nil {
			return nil // EOF after a final command
		}
	}
}

func newStatusWriter(opts timelineOptions) (output.StatusWriter, error) {
	if opts.outputFile == "" {
		return output.NewWriter(opts.format, os.Stdout)
	}
	if opts.format == "ndjson" {
		return output.NewNDJSONFileWriter(opts.outputFile)
	}
	f, err := os.Create(opts.outputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	w, err := output.NewWriter(opts.format, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &fileBackedWriter{StatusWriter: w, file: f}, nil
}

// fileBackedWriter closes the destination file along with the writer.
type fileBackedWriter struct {
	output.StatusWriter
	file *os.File
}

func (w *fileBackedWriter) Close() error {
	if err := w.StatusWriter.Close(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

func writePage(writer output.StatusWriter, pageNum int, statuses []mastodon.Status) error {
	if err := writer.WritePageBreak(pageNum); err != nil {
		return err
	}
	for _, status := range statuses {
		if err := writer.WriteStatus(status); err != nil {
			return fmt.Errorf("failed to write status: %w", err)
		}
	}
	return nil
}

func writeSessionReport(app *app, tracker *metadata.Tracker, opts timelineOptions, server string) error {
	if opts.metadataFile == "" {
		return nil
	}

	md := tracker.Generate(version.Version, metadata.SessionParams{
		Server:       server,
		PageSize:     opts.limit,
		PagesForward: opts.pagesForward,
		PagesBack:    opts.pagesBack,
		Interactive:  opts.interactive,
	})
	if err := metadata.Save(md, opts.metadataFile); err != nil {
		return err
	}
	app.logger.Info("wrote session report", "path", opts.metadataFile)
	return nil
}
