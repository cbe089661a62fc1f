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

package mastodon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tomnomnom/linkheader"
	"github.com/tootline/tootline/internal/apierror"
	tooterrors "github.com/tootline/tootline/internal/errors"
	"github.com/tootline/tootline/pkg/version"
)

// maxResponseSize caps how much of a response body is read. Timeline pages
// are small; anything larger indicates a misbehaving server.
const maxResponseSize = 4 << 20

// RESTClient implements the Client interface against the Mastodon REST API.
// It is configured with:
//   - Authentication via the provided bearer token
//   - Response size limiting to prevent memory issues
//   - User-Agent header for API compliance
//   - Connection pooling tuned for a single interactive session
//
// Timeouts are not set here; the CLI passes a context with a deadline on
// every call.
type RESTClient struct {
	base      *url.URL
	http      *http.Client
	inspector apierror.Inspector
}

// NewRESTClient creates a new Mastodon REST client for the given server
// base URL and access token. The base URL must be absolute with an http or
// https scheme.
func NewRESTClient(baseURL, token string) (*RESTClient, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", baseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid server URL %q: scheme must be http or https", baseURL)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q: missing host", baseURL)
	}

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	httpClient := &http.Client{
		Transport: &authTransport{
			token: token,
			base:  transport,
		},
	}

	return &RESTClient{
		base:      base,
		http:      httpClient,
		inspector: apierror.NewInspector(),
	}, nil
}

// VerifyCredentials checks the access token against the server and returns
// the account it belongs to.
func (c *RESTClient) VerifyCredentials(ctx context.Context) (*Account, error) {
	var account Account
	if err := c.getJSON(ctx, c.endpoint("/api/v1/accounts/verify_credentials"), &account); err != nil {
		if c.inspector.IsAuthError(err) {
			return nil, apierror.WithHint(err,
				"The stored access token was rejected. Delete the credential file and log in again.")
		}
		return nil, err
	}
	return &account, nil
}

// HomeTimeline retrieves the newest page of the user's home timeline.
func (c *RESTClient) HomeTimeline(ctx context.Context, opts FetchOptions) (*TimelinePage, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}

	q := url.Values{"limit": {strconv.Itoa(limit)}}
	return c.fetchPage(ctx, c.endpoint("/api/v1/timelines/home")+"?"+q.Encode())
}

// TimelineAt retrieves the timeline page identified by a locator URL from a
// previous response's Link header.
func (c *RESTClient) TimelineAt(ctx context.Context, pageURL string) (*TimelinePage, error) {
	return c.fetchPage(ctx, pageURL)
}

// endpoint joins a path onto the server base URL.
func (c *RESTClient) endpoint(path string) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	return u.String()
}

// fetchPage issues a timeline request and decodes the status list plus the
// pagination locators. The locators come from the Link header the server
// sends (rel="next" and rel="prev") and are returned verbatim.
func (c *RESTClient) fetchPage(ctx context.Context, rawURL string) (*TimelinePage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building timeline request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("timeline request: %s: %w", err, tooterrors.ErrFetchFailed)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp)
	}

	var statuses []Status
	body := io.LimitReader(resp.Body, maxResponseSize)
	if err := json.NewDecoder(body).Decode(&statuses); err != nil {
		return nil, fmt.Errorf("decoding timeline response: %s: %w", err, tooterrors.ErrFetchFailed)
	}

	page := &TimelinePage{Statuses: statuses}
	page.NextURL, page.PrevURL = parsePageLinks(resp.Header.Get("Link"))
	return page, nil
}

// getJSON issues a GET request and decodes a single JSON document.
func (c *RESTClient) getJSON(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request: %s: %w", err, tooterrors.ErrFetchFailed)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.statusError(resp)
	}

	body := io.LimitReader(resp.Body, maxResponseSize)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("decoding response: %s: %w", err, tooterrors.ErrFetchFailed)
	}
	return nil
}

// statusError turns a non-200 response into an error carrying the HTTP
// status and the server's error message, wrapped around the fetch sentinel.
func (c *RESTClient) statusError(resp *http.Response) error {
	msg := apiErrorMessage(resp.Body)
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return fmt.Errorf("server returned %d: %s: %w", resp.StatusCode, msg, tooterrors.ErrFetchFailed)
}

// apiErrorMessage extracts the "error" field Mastodon returns in JSON error
// bodies. Returns an empty string if the body is not in that shape.
func apiErrorMessage(r io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	data, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil {
		return ""
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	return payload.Error
}

// parsePageLinks extracts the next and prev locator URLs from a Link
// header. A missing header or missing rel yields an empty locator, which
// the cursor treats as a traversal boundary.
func parsePageLinks(header string) (next, prev string) {
	if header == "" {
		return "", ""
	}
	links := linkheader.Parse(header)
	if l := links.FilterByRel("next"); len(l) > 0 {
		next = l[0].URL
	}
	if l := links.FilterByRel("prev"); len(l) > 0 {
		prev = l[0].URL
	}
	return next, prev
}

// RegisterApp registers a new OAuth application with the server at baseURL.
// This call is unauthenticated; every invocation creates a fresh client
// registration on the server rather than reusing one.
func RegisterApp(ctx context.Context, httpClient *http.Client, baseURL string, cfg AppConfig) (*Application, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	form := url.Values{
		"client_name":   {cfg.ClientName},
		"redirect_uris": {cfg.RedirectURI},
		"scopes":        {cfg.Scopes},
	}
	if cfg.Website != "" {
		form.Set("website", cfg.Website)
	}

	endpoint := strings.TrimRight(baseURL, "/") + "/api/v1/apps"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building registration request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "tootline/"+version.Version)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registering with %s: %s: %w", baseURL, err, tooterrors.ErrRegistrationFailed)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg := apiErrorMessage(resp.Body)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, fmt.Errorf("server returned %d: %s: %w", resp.StatusCode, msg, tooterrors.ErrRegistrationFailed)
	}

	var app Application
	body := io.LimitReader(resp.Body, maxResponseSize)
	if err := json.NewDecoder(body).Decode(&app); err != nil {
		return nil, fmt.Errorf("decoding registration response: %s: %w", err, tooterrors.ErrRegistrationFailed)
	}
	if app.ClientID == "" || app.ClientSecret == "" {
		return nil, fmt.Errorf("registration response missing client credentials: %w", tooterrors.ErrRegistrationFailed)
	}
	return &app, nil
}
