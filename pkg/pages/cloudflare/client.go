package cloudflare

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"pagesweep-hq/pagesweep/pkg/pages"
	"pagesweep-hq/pagesweep/pkg/ratelimit"
	"pagesweep-hq/pagesweep/pkg/telemetry/tracing"
)

const (
	// DefaultBaseURL is the v4 API root.
	DefaultBaseURL = "https://api.cloudflare.com/client/v4"

	// DefaultPerPage is the largest page size the deployments endpoint accepts.
	DefaultPerPage = 25

	defaultTimeout      = 30 * time.Second
	defaultRetryBackoff = time.Second
	maxBodyBytes        = 4 << 20
)

// HTTPClient is the subset of *http.Client used by Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds the settings for a Client.
type Config struct {
	BaseURL   string
	AccountID string

	// APIToken takes precedence over APIKey/Email when both are set.
	APIToken string
	APIKey   string
	Email    string

	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	PerPage      int
	UserAgent    string

	// RateLimit is the sustained request rate per second. Zero disables
	// pacing.
	RateLimit float64
	// RateBurst is how many requests may go out back to back.
	RateBurst int
}

// RequestObserver is notified of every HTTP round trip. statusCode is 0 when
// no response was received.
type RequestObserver interface {
	ObserveRequest(method string, statusCode int, duration time.Duration)
}

// Client talks to the Pages API of a single account.
type Client struct {
	cfg      Config
	http     HTTPClient
	logger   *slog.Logger
	observer RequestObserver
	tracer   trace.Tracer
	limiter  *ratelimit.TokenBucket
	redact   bool

	// sleep waits between retries; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc HTTPClient) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets the logger used for retry and skip warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithObserver reports every request to o, e.g. a metrics collector.
func WithObserver(o RequestObserver) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// WithTracer creates a client span for every request attempt.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) {
		c.tracer = t
	}
}

// WithRedactedProjectNames masks project names in request paths wherever the
// client logs them, records them on spans or returns them in errors.
func WithRedactedProjectNames() Option {
	return func(c *Client) {
		c.redact = true
	}
}

// NewClient returns a Client for cfg. The account id and one credential form
// are required.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.AccountID == "" {
		return nil, errors.New("cloudflare: account id is required")
	}
	if cfg.APIToken == "" && (cfg.APIKey == "" || cfg.Email == "") {
		return nil, errors.New("cloudflare: either an API token or an API key and email are required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = defaultRetryBackoff
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.PerPage <= 0 {
		cfg.PerPage = DefaultPerPage
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "pagesweep"
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 1
	}

	c := &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: slog.Default(),
		tracer: noop.NewTracerProvider().Tracer(tracing.InstrumentationName),
		sleep:  sleepContext,
	}
	if cfg.RateLimit > 0 {
		c.limiter = ratelimit.NewTokenBucket(int64(cfg.RateBurst), cfg.RateLimit)
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "cloudflare")
	return c, nil
}

// Projects returns a lazy pager over the account's Pages projects.
func (c *Client) Projects() *pages.Pager[pages.Project] {
	return pages.NewPager(func(ctx context.Context, page int) (pages.Page[pages.Project], error) {
		path := "/accounts/" + url.PathEscape(c.cfg.AccountID) + "/pages/projects"

		var raw []json.RawMessage
		info, err := c.do(ctx, http.MethodGet, path, c.pageQuery(page), &raw)
		if err != nil {
			return pages.Page[pages.Project]{}, err
		}

		items := make([]pages.Project, 0, len(raw))
		for i, r := range raw {
			var p apiProject
			if err := json.Unmarshal(r, &p); err != nil {
				c.logger.Warn("skipping malformed project", "page", page, "index", i, "error", err)
				continue
			}
			items = append(items, p.toProject())
		}
		return pages.Page[pages.Project]{Items: items, TotalPages: info.pages()}, nil
	})
}

// Deployments returns a lazy pager over a project's deployments, newest first.
func (c *Client) Deployments(project string) *pages.Pager[pages.Deployment] {
	return pages.NewPager(func(ctx context.Context, page int) (pages.Page[pages.Deployment], error) {
		path := c.projectPath(project) + "/deployments"

		var raw []json.RawMessage
		info, err := c.do(ctx, http.MethodGet, path, c.pageQuery(page), &raw)
		if err != nil {
			return pages.Page[pages.Deployment]{}, err
		}

		items := make([]pages.Deployment, 0, len(raw))
		for i, r := range raw {
			var d apiDeployment
			if err := json.Unmarshal(r, &d); err != nil {
				c.logger.Warn("skipping malformed deployment",
					"project", c.projectName(project), "page", page, "index", i, "error", err)
				continue
			}
			items = append(items, d.toDeployment(project))
		}
		return pages.Page[pages.Deployment]{Items: items, TotalPages: info.pages()}, nil
	})
}

// DeleteDeployment deletes one deployment. The request is never retried.
func (c *Client) DeleteDeployment(ctx context.Context, project, id string) error {
	if id == "" {
		return errors.New("cloudflare: deployment id is required")
	}
	path := c.projectPath(project) + "/deployments/" + url.PathEscape(id)
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// VerifyToken checks the configured API token.
func (c *Client) VerifyToken(ctx context.Context) (TokenStatus, error) {
	if c.cfg.APIToken == "" {
		return TokenStatus{}, errors.New("cloudflare: no API token configured")
	}
	var status TokenStatus
	if _, err := c.do(ctx, http.MethodGet, "/user/tokens/verify", nil, &status); err != nil {
		return TokenStatus{}, err
	}
	return status, nil
}

func (c *Client) projectPath(project string) string {
	return "/accounts/" + url.PathEscape(c.cfg.AccountID) + "/pages/projects/" + url.PathEscape(project)
}

func (c *Client) projectName(project string) string {
	if !c.redact {
		return project
	}
	return pages.MaskName(project)
}

// projectInPath returns the escaped project segment of a
// /accounts/{id}/pages/projects/{name}/... path, or "" if there is none.
func projectInPath(path string) string {
	parts := strings.Split(path, "/")
	for i := 2; i < len(parts); i++ {
		if parts[i-2] == "pages" && parts[i-1] == "projects" {
			return parts[i]
		}
	}
	return ""
}

func (c *Client) pageQuery(page int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(c.cfg.PerPage))
	return q
}

func (c *Client) setAuth(req *http.Request) {
	if c.cfg.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
		return
	}
	req.Header.Set("X-Auth-Key", c.cfg.APIKey)
	req.Header.Set("X-Auth-Email", c.cfg.Email)
}

// do sends a request and decodes the envelope's result into out. Only GET
// requests are retried.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, out any) (*ResultInfo, error) {
	target := c.cfg.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var project string
	if c.redact {
		project = projectInPath(path)
		path = pages.MaskIn(project, path)
	}

	retries := 0
	if method == http.MethodGet {
		retries = c.cfg.MaxRetries
	}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			backoff := c.cfg.RetryBackoff << (attempt - 1)
			var rle *RateLimitError
			if errors.As(lastErr, &rle) && rle.RetryAfter > 0 {
				backoff = rle.RetryAfter
			}
			c.logger.Debug("retrying request",
				"method", method,
				"path", path,
				"attempt", attempt,
				"max_retries", retries,
				"backoff", backoff,
			)
			if err := c.sleep(ctx, backoff); err != nil {
				return nil, err
			}
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx, 1); err != nil {
				return nil, err
			}
		}

		info, err := c.traced(ctx, attempt, method, path, target, project, out)
		if err == nil {
			return info, nil
		}
		if !retryable(err) || ctx.Err() != nil {
			return nil, err
		}
		lastErr = err
		if attempt < retries {
			c.logger.Warn("request failed, will retry",
				"method", method,
				"path", path,
				"attempt", attempt+1,
				"error", err,
			)
		}
	}
	return nil, lastErr
}

// traced runs one attempt in a client span. path is the displayed path; a
// non-empty project is masked in the returned error.
func (c *Client) traced(ctx context.Context, attempt int, method, path, target, project string, out any) (*ResultInfo, error) {
	ctx, span := c.tracer.Start(ctx, tracing.HTTPSpanName(method),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(tracing.AttrHTTPMethod, method),
			attribute.String(tracing.AttrURLPath, path),
		),
	)
	defer span.End()
	if attempt > 0 {
		span.SetAttributes(attribute.Int(tracing.AttrHTTPRetry, attempt))
	}

	info, err := c.once(ctx, method, path, target, out)
	err = pages.RedactError(project, err)
	tracing.SetStatus(span, err)
	return info, err
}

func (c *Client) once(ctx context.Context, method, path, target string, out any) (*ResultInfo, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setAuth(req)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if c.observer != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		c.observer.ObserveRequest(method, status, time.Since(start))
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &networkError{cause: err}
	}
	defer resp.Body.Close()
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int(tracing.AttrHTTPStatusCode, resp.StatusCode))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &networkError{cause: fmt.Errorf("read response: %w", err)}
	}

	var env envelope
	decodeErr := json.Unmarshal(body, &env)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &AuthError{StatusCode: resp.StatusCode, Errors: env.Errors}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &RateLimitError{
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Errors:     env.Errors,
		}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, &APIError{StatusCode: resp.StatusCode, Method: method, Path: path, Errors: env.Errors}
	}

	if decodeErr != nil {
		return nil, &DecodeError{Path: path, Body: truncate(string(body), 512), Cause: decodeErr}
	}
	if !env.Success {
		return nil, &APIError{StatusCode: resp.StatusCode, Method: method, Path: path, Errors: env.Errors}
	}
	if out != nil && len(env.Result) > 0 && string(env.Result) != "null" {
		if err := json.Unmarshal(env.Result, out); err != nil {
			return nil, &DecodeError{Path: path, Body: truncate(string(env.Result), 512), Cause: err}
		}
	}
	return env.ResultInfo, nil
}

// networkError marks transport failures as retryable.
type networkError struct {
	cause error
}

func (e *networkError) Error() string { return e.cause.Error() }
func (e *networkError) Unwrap() error { return e.cause }

func retryable(err error) bool {
	var netErr *networkError
	if errors.As(err, &netErr) {
		return true
	}
	var rle *RateLimitError
	if errors.As(err, &rle) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	return false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// parseRetryAfter parses a Retry-After header in either delay-seconds or
// HTTP-date form.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(strings.TrimSpace(header)); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
