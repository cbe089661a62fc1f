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
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/tootline/tootline/internal/auth"
	"github.com/tootline/tootline/internal/config"
	"github.com/tootline/tootline/internal/credentials"
	"github.com/tootline/tootline/internal/logging"
	"github.com/tootline/tootline/internal/session"
)

// app holds everything a subcommand needs: loaded config, the shared
// logger, the credential store, and the session bootstrap. One stdin
// reader is shared between the server prompt, the authorization flow,
// and interactive navigation so buffered input is never split across
// readers.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	closeLogs func() error
	store     *credentials.Store
	bootstrap *session.Bootstrap
	stdin     *bufio.Reader
	timeout   time.Duration
}

// setupApp loads config, starts logging, and wires the bootstrap.
// Callers must invoke app.close before exiting.
func setupApp(configPath string, verbose bool) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, closeLogs, err := logging.Setup(logging.Options{
		JSONFile: cfg.Logging.JSONFile,
		TextFile: cfg.Logging.TextFile,
		Verbose:  verbose || cfg.Logging.Verbose,
	})
	if err != nil {
		return nil, err
	}

	credPath := os.Getenv("TOOTLINE_CREDENTIALS")
	if credPath == "" {
		credPath, err = credentials.DefaultPath()
		if err != nil {
			closeLogs()
			return nil, fmt.Errorf("resolving credential path: %w", err)
		}
	}

	stdin := bufio.NewReader(os.Stdin)
	store := credentials.NewStore(credPath)
	flow := auth.NewFlow(
		auth.WithInput(stdin),
		auth.WithLogger(logger),
	)

	a := &app{
		cfg:       cfg,
		logger:    logger,
		closeLogs: closeLogs,
		store:     store,
		stdin:     stdin,
		timeout:   time.Duration(cfg.Defaults.TimeoutSeconds) * time.Second,
	}
	a.bootstrap = &session.Bootstrap{
		Store:      store,
		Flow:       flow,
		ServerName: a.serverName,
		Logger:     logger,
	}
	return a, nil
}

func (a *app) close() {
	if err := a.closeLogs(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: closing log files: %v\n", err)
	}
}

// apiContext bounds one network operation with the configured timeout.
func (a *app) apiContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.timeout)
}

// serverName resolves the server to register with on a first run: the
// configured instance if set, otherwise an interactive prompt.
func (a *app) serverName(ctx context.Context) (string, error) {
	if a.cfg.Instance.URL != "" {
		return a.cfg.Instance.URL, nil
	}
	return promptServerName(a.stdin, os.Stderr)
}

// promptServerName asks the user which server to sign in to.
func promptServerName(in *bufio.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Which server do you want to sign in to (e.g. mastodon.social)? ")
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading server name: %w", err)
	}

	name := strings.TrimSpace(line)
	if name == "" {
		return "", fmt.Errorf("no server name entered")
	}
	return name, nil
}
