package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

const maxErrorBodySize = 1 << 20

// Client is the configured request pipeline every API call goes through. It
// attaches bearer credentials from the synchronous store, normalizes request
// paths, retries transport timeouts, and reacts to the global
// session-invalidated signal. Failures returned to callers are always
// classified first.
type Client struct {
	cfg        Config
	httpClient *http.Client
	tokens     *TokenStore
	cache      AuthCache
	nav        Navigator
	logger     Logger
	metrics    *Metrics
	debug      bool
	invalidate func()
}

// NewClient builds a request pipeline over the given token store.
func NewClient(cfg Config, tokens *TokenStore) *Client {
	return &Client{
		cfg:    cfg,
		tokens: tokens,
		logger: defLogger{},
		httpClient: &http.Client{
			Timeout: cfg.GetRequestTimeout(),
		},
	}
}

// WithHTTPClient overrides the underlying transport (tests).
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

func (c *Client) WithLogger(logger Logger) *Client {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithAuthCache wires the asynchronous tier so the 401 handler can clear it.
func (c *Client) WithAuthCache(cache AuthCache) *Client {
	c.cache = cache
	return c
}

// WithNavigator wires the forced login redirect on session invalidation.
func (c *Client) WithNavigator(nav Navigator) *Client {
	c.nav = nav
	return c
}

// WithSessionInvalidator wires the in-memory session teardown triggered by
// the global 401 handler, typically SessionContext.Invalidate. Operations in
// flight at that moment observe the generation bump and drop late results.
func (c *Client) WithSessionInvalidator(fn func()) *Client {
	c.invalidate = fn
	return c
}

func (c *Client) WithMetrics(m *Metrics) *Client {
	c.metrics = m
	return c
}

func (c *Client) WithDebug(debug bool) *Client {
	c.debug = debug
	return c
}

// Get issues a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Patch issues a PATCH with a JSON body and decodes the response into out.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE and decodes the JSON response into out.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do runs one logical request. A transport timeout is retried up to the
// configured number of extra attempts with the retry counter carried here,
// per logical request; no other failure is ever retried automatically.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode request body").
				WithTextCode(KindUnknownError)
		}
	}

	requestID := uuid.NewString()
	retries := c.cfg.GetTimeoutRetries()

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			c.metrics.observeRetry()
			c.logger.Debug("timeout on %s %s, retrying (%d/%d)", method, path, attempt, retries)
		}

		lastErr = c.doOnce(ctx, method, path, requestID, payload, out)
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) {
			break
		}
	}

	c.metrics.observeFailure(Kind(lastErr))
	return lastErr
}

func (c *Client) doOnce(ctx context.Context, method, path, requestID string, payload []byte, out any) error {
	url := strings.TrimRight(c.cfg.GetBaseURL(), "/") + normalizePath(path)

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to build request").
			WithTextCode(KindUnknownError)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	if token := c.tokens.Token(); token != "" && !isPublicPath(path) {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.observeLatency(method, time.Since(start).Seconds())
	if err != nil {
		classified := Classify(err)
		c.metrics.observeRequest(method, "transport_error")
		return classified
	}
	defer resp.Body.Close()

	c.metrics.observeRequest(method, statusClass(resp.StatusCode))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			io.Copy(io.Discard, resp.Body) //nolint:errcheck
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			if err == io.EOF {
				return nil
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to decode response").
				WithTextCode(KindUnknownError)
		}
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))

	// A 401 is a global "session invalidated" signal, handled once per
	// response, not per retry: 401s are never retried.
	if resp.StatusCode == http.StatusUnauthorized {
		c.handleUnauthorized(ctx)
	}

	return Classify(&ResponseError{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       raw,
	})
}

// handleUnauthorized invalidates the in-memory session, clears both storage
// tiers, and forces navigation to the login entry point unless the current
// view already is an auth view.
func (c *Client) handleUnauthorized(ctx context.Context) {
	if c.invalidate != nil {
		c.invalidate()
	}

	if err := c.tokens.Clear(); err != nil {
		c.logger.Warn("failed to clear token store on 401: %v", err)
	}

	if c.cache != nil {
		if err := c.cache.ClearAuth(ctx); err != nil {
			c.logger.Warn("failed to clear auth cache on 401: %v", err)
		}
	}

	if c.nav != nil && !strings.HasPrefix(c.nav.CurrentPath(), c.cfg.GetAuthPathPrefix()) {
		c.nav.Navigate(c.cfg.GetLoginPath())
	}
}

// normalizePath strips a single trailing slash. The backend answers a
// trailing-slash path with a 301, and the redirected hop drops the
// Authorization header; this is load-bearing, not cosmetic.
func normalizePath(path string) string {
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		return path[:len(path)-1]
	}
	return path
}

// isPublicPath reports whether the endpoint authenticates by credentials in
// the body rather than a bearer token.
func isPublicPath(path string) bool {
	return strings.Contains(path, "/login") || strings.Contains(path, "/register")
}

func statusClass(code int) string {
	switch {
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
