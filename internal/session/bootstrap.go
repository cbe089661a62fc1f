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

// Package session orchestrates credential bootstrap: load the stored
// credential, or run the authorization flow and persist its result, then
// verify the credential against the server and hand back an authenticated
// client.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tootline/tootline/internal/apierror"
	"github.com/tootline/tootline/internal/auth"
	"github.com/tootline/tootline/internal/credentials"
	tooterrors "github.com/tootline/tootline/internal/errors"
	"github.com/tootline/tootline/internal/mastodon"
)

// Bootstrap wires the credential store and authorization flow together.
// ServerName is only invoked when a registration is actually needed, so a
// pre-configured instance can skip the prompt entirely.
type Bootstrap struct {
	Store *credentials.Store
	Flow  *auth.Flow

	// ServerName supplies the server to register with on a first run.
	ServerName func(ctx context.Context) (string, error)

	// NewClient builds the authenticated API client from a credential.
	// Nil selects the REST client; tests inject mocks here.
	NewClient func(*credentials.Credentials) (mastodon.Client, error)

	Logger *slog.Logger
}

// Session is an authenticated, verified session against one server.
type Session struct {
	Client      mastodon.Client
	Credentials *credentials.Credentials
	Account     *mastodon.Account
}

// Run produces a session: stored credentials are loaded and verified, or,
// on a first run, the authorization flow registers, authenticates, and
// persists new ones.
//
// A corrupt credential file aborts with a diagnostic rather than silently
// re-registering; the user decides whether to delete it.
func (b *Bootstrap) Run(ctx context.Context) (*Session, error) {
	logger := b.logger()

	creds, err := b.Store.Load()
	switch {
	case err == nil:
		logger.Info("loaded stored credentials",
			"server", creds.ServerBaseURL,
			"path", b.Store.Path())

	case errors.Is(err, tooterrors.ErrCredentialsNotFound):
		// Expected on a first run, not an error.
		logger.Info("no stored credentials, starting authorization",
			"path", b.Store.Path())
		creds, err = b.authorize(ctx)
		if err != nil {
			return nil, err
		}

	case errors.Is(err, tooterrors.ErrCredentialsCorrupt):
		return nil, apierror.WithHint(err,
			fmt.Sprintf("The credential file is unreadable. Inspect or delete %s, then run again to re-authorize.", b.Store.Path()))

	default:
		return nil, err
	}

	return b.verified(ctx, creds)
}

// Reauthorize runs the authorization flow unconditionally, overwriting any
// stored credential. Used by the login command.
func (b *Bootstrap) Reauthorize(ctx context.Context) (*Session, error) {
	creds, err := b.authorize(ctx)
	if err != nil {
		return nil, err
	}
	return b.verified(ctx, creds)
}

// authorize runs register → authenticate → save. A credential that cannot
// be persisted aborts the run: a session that silently forgets its token
// would re-register on every start.
func (b *Bootstrap) authorize(ctx context.Context) (*credentials.Credentials, error) {
	if b.ServerName == nil {
		return nil, fmt.Errorf("no server configured and no prompt available: %w", tooterrors.ErrRegistrationFailed)
	}

	serverName, err := b.ServerName(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading server name: %w", err)
	}

	reg, err := b.Flow.Register(ctx, serverName)
	if err != nil {
		return nil, err
	}

	creds, err := b.Flow.Authenticate(ctx, reg)
	if err != nil {
		return nil, err
	}

	if err := b.Store.Save(creds); err != nil {
		return nil, err
	}
	b.logger().Info("saved credentials", "path", b.Store.Path())
	return creds, nil
}

// verified builds the API client and checks the credential against the
// server before handing the session to the caller.
func (b *Bootstrap) verified(ctx context.Context, creds *credentials.Credentials) (*Session, error) {
	client, err := b.newClient(creds)
	if err != nil {
		return nil, fmt.Errorf("building API client: %w", err)
	}

	account, err := client.VerifyCredentials(ctx)
	if err != nil {
		return nil, fmt.Errorf("verifying credentials: %w", err)
	}

	b.logger().Info("verified credentials", "account", account.Acct)
	return &Session{
		Client:      client,
		Credentials: creds,
		Account:     account,
	}, nil
}

func (b *Bootstrap) newClient(creds *credentials.Credentials) (mastodon.Client, error) {
	if b.NewClient != nil {
		return b.NewClient(creds)
	}
	return mastodon.NewRESTClient(creds.ServerBaseURL, creds.AccessToken)
}

func (b *Bootstrap) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}
