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

// Package auth drives the two-step OAuth authorization flow against a
// server: register an application, then walk the user through consent and
// exchange the resulting code for an access token.
//
// The flow is a linear state machine. Register produces a
// PendingRegistration; Authenticate consumes it and produces a persisted
// Credentials. A PendingRegistration only lives between the two calls
// within one run; re-running Register always creates a fresh client
// registration on the server instead of reusing one.
package auth

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/pkg/browser"
	"golang.org/x/oauth2"

	"github.com/tootline/tootline/internal/credentials"
	tooterrors "github.com/tootline/tootline/internal/errors"
	"github.com/tootline/tootline/internal/mastodon"
)

// Fixed application identity. The client name and redirect target are part
// of the registration contract with the server; the out-of-band URN makes
// the server show the authorization code to the user instead of
// redirecting anywhere.
const (
	clientName      = "tootline"
	redirectURI     = "urn:ietf:wg:oauth:2.0:oob"
	requestedScopes = "read"
	clientWebsite   = "https://github.com/tootline/tootline"
)

// PendingRegistration is the ephemeral product of Register. It is never
// persisted; Authenticate consumes it within the same run.
type PendingRegistration struct {
	ServerBaseURL string
	ClientID      string
	ClientSecret  string
	RedirectURI   string
	Scopes        []string

	// AuthorizeURL is complete and directly navigable; the caller performs
	// no further construction.
	AuthorizeURL string
}

// Flow holds the collaborators the authorization flow talks to: the HTTP
// client for the server, the terminal streams for the code prompt, and the
// browser opener. All are replaceable for tests.
type Flow struct {
	httpClient *http.Client
	in         *bufio.Reader
	out        io.Writer
	openURL    func(string) error
	logger     *slog.Logger
}

// Option customizes a Flow.
type Option func(*Flow)

// WithHTTPClient sets the HTTP client used for registration and token
// exchange.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Flow) { f.httpClient = c }
}

// WithInput sets the reader the authorization code is read from.
func WithInput(r io.Reader) Option {
	return func(f *Flow) { f.in = bufio.NewReader(r) }
}

// WithOutput sets the writer prompts and the authorize URL are printed to.
func WithOutput(w io.Writer) Option {
	return func(f *Flow) { f.out = w }
}

// WithBrowserOpener replaces how the authorize URL is opened.
func WithBrowserOpener(open func(string) error) Option {
	return func(f *Flow) { f.openURL = open }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Flow) { f.logger = l }
}

// NewFlow creates an authorization flow with stdin/stdout terminals and
// the system browser as defaults.
func NewFlow(opts ...Option) *Flow {
	f := &Flow{
		httpClient: http.DefaultClient,
		in:         bufio.NewReader(os.Stdin),
		out:        os.Stdout,
		openURL:    browser.OpenURL,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NormalizeServerURL turns a user-supplied server name into an absolute
// base URL. A bare hostname gets the https scheme; an explicit http or
// https URL passes through.
func NormalizeServerURL(serverName string) (string, error) {
	name := strings.TrimSpace(serverName)
	if name == "" {
		return "", fmt.Errorf("server name is empty")
	}
	if !strings.Contains(name, "://") {
		name = "https://" + name
	}

	u, err := url.Parse(name)
	if err != nil {
		return "", fmt.Errorf("invalid server name %q: %w", serverName, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid server name %q: scheme must be http or https", serverName)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid server name %q: missing host", serverName)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

// Register registers a new OAuth application with the named server and
// returns the pending registration, including the ready-to-open authorize
// URL. Safe to re-run: each call creates a new registration.
func (f *Flow) Register(ctx context.Context, serverName string) (*PendingRegistration, error) {
	baseURL, err := NormalizeServerURL(serverName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", err, tooterrors.ErrRegistrationFailed)
	}

	app, err := mastodon.RegisterApp(ctx, f.httpClient, baseURL, mastodon.AppConfig{
		ClientName:  clientName,
		RedirectURI: redirectURI,
		Scopes:      requestedScopes,
		Website:     clientWebsite,
	})
	if err != nil {
		return nil, err
	}

	f.logger.Info("registered application",
		"server", baseURL,
		"client_id", app.ClientID)

	cfg := oauthConfig(baseURL, app.ClientID, app.ClientSecret)
	return &PendingRegistration{
		ServerBaseURL: baseURL,
		ClientID:      app.ClientID,
		ClientSecret:  app.ClientSecret,
		RedirectURI:   redirectURI,
		Scopes:        strings.Fields(requestedScopes),
		AuthorizeURL:  cfg.AuthCodeURL(""),
	}, nil
}

// Authenticate surfaces the authorize URL, reads the resulting
// authorization code from the flow's input, and exchanges it for an access
// token. A browser that refuses to open is logged and skipped; the URL is
// already printed, so the user can navigate manually.
func (f *Flow) Authenticate(ctx context.Context, reg *PendingRegistration) (*credentials.Credentials, error) {
	fmt.Fprintf(f.out, "Open this URL to authorize %s:\n\n  %s\n\n", clientName, reg.AuthorizeURL)

	if err := f.openURL(reg.AuthorizeURL); err != nil {
		f.logger.Warn("continue by opening the URL manually",
			"error", fmt.Errorf("%w: %s", tooterrors.ErrBrowserOpen, err))
	}

	code, err := f.readAuthorizationCode()
	if err != nil {
		return nil, err
	}

	cfg := oauthConfig(reg.ServerBaseURL, reg.ClientID, reg.ClientSecret)
	token, err := cfg.Exchange(
		context.WithValue(ctx, oauth2.HTTPClient, f.httpClient),
		code,
	)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %s: %w", err, tooterrors.ErrExchangeFailed)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("token response carried no access token: %w", tooterrors.ErrExchangeFailed)
	}

	creds := &credentials.Credentials{
		ServerBaseURL: reg.ServerBaseURL,
		ClientID:      reg.ClientID,
		ClientSecret:  reg.ClientSecret,
		AccessToken:   token.AccessToken,
		Scopes:        grantedScopes(token, reg.Scopes),
	}

	f.logger.Info("authenticated",
		"server", creds.ServerBaseURL,
		"scopes", strings.Join(creds.Scopes, " "))
	return creds, nil
}

// readAuthorizationCode prompts for and reads one line containing the code
// the server displayed after consent.
func (f *Flow) readAuthorizationCode() (string, error) {
	fmt.Fprint(f.out, "Paste the authorization code: ")

	line, err := f.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading authorization code: %s: %w", err, tooterrors.ErrExchangeFailed)
	}

	code := strings.TrimSpace(line)
	if code == "" {
		return "", fmt.Errorf("authorization code is empty: %w", tooterrors.ErrExchangeFailed)
	}
	return code, nil
}

// oauthConfig builds the OAuth2 endpoints for a server base URL. Client
// credentials go in the POST body; Mastodon-compatible servers do not
// accept basic auth on the token endpoint from oob clients.
func oauthConfig(baseURL, clientID, clientSecret string) *oauth2.Config {
	base := strings.TrimRight(baseURL, "/")
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       strings.Fields(requestedScopes),
		Endpoint: oauth2.Endpoint{
			AuthURL:   base + "/oauth/authorize",
			TokenURL:  base + "/oauth/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// grantedScopes prefers the scope list the token response reports over the
// requested one.
func grantedScopes(token *oauth2.Token, requested []string) []string {
	if scope, ok := token.Extra("scope").(string); ok {
		if granted := strings.Fields(scope); len(granted) > 0 {
			return granted
		}
	}
	return requested
}
