// Package carbonapi is the client of the carbon backend REST API.
package carbonapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/carbonview/dashboard/internal/logging"
	"github.com/carbonview/dashboard/internal/session"
)

const (
	// DefaultTimeout is the standard timeout for backend reads and writes.
	DefaultTimeout = 30 * time.Second

	// UploadTimeout covers IFC uploads, which the backend processes inline.
	UploadTimeout = 5 * time.Minute

	maxErrorBody = 64 << 10
)

type Options struct {
	BaseURL       string
	Timeout       time.Duration
	UploadTimeout time.Duration
	// RPS and Burst pace outbound calls; RPS <= 0 disables pacing.
	RPS    float64
	Burst  int
	Logger *zap.Logger
}

// Client talks to the carbon backend on behalf of an explicit identity.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	uploadClient *http.Client
	limiter      *rate.Limiter
	logger       *zap.Logger
}

func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UploadTimeout <= 0 {
		opts.UploadTimeout = UploadTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RPS > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RPS), burst)
	}

	return &Client{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		httpClient:   &http.Client{Timeout: opts.Timeout},
		uploadClient: &http.Client{Timeout: opts.UploadTimeout},
		limiter:      limiter,
		logger:       opts.Logger,
	}
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do sends one request and decodes a JSON reply into out (if non-nil).
// Non-2xx replies become *APIError.
func (c *Client) do(ctx context.Context, hc *http.Client, id session.Identity, operation string, req *http.Request, out any) error {
	logger := logging.FromContext(ctx, c.logger)

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: rate limit wait: %w", operation, err)
	}

	id.Apply(req)
	if rid := logging.RequestID(ctx); rid != "" {
		req.Header.Set("X-Request-Id", rid)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := hc.Do(req)
	duration := time.Since(start)
	if err != nil {
		logger.LogError(operation, err)
		recordUpstreamCall(duration, err)
		return fmt.Errorf("%s: backend request failed: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := newAPIError(operation, resp.StatusCode, body)
		logger.LogWarnf(operation, "backend returned status %d", resp.StatusCode)
		recordUpstreamCall(duration, apiErr)
		return apiErr
	}
	recordUpstreamCall(duration, nil)

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		logger.LogError(operation, err)
		return fmt.Errorf("%s: decode response: %w", operation, err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, id session.Identity, operation, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, query), nil)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", operation, err)
	}
	return c.do(ctx, c.httpClient, id, operation, req, out)
}

func (c *Client) sendJSON(ctx context.Context, id session.Identity, operation, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", operation, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, nil), body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", operation, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(ctx, c.httpClient, id, operation, req, out)
}

func projectPath(projectID string, parts ...string) string {
	p := "/projects/" + url.PathEscape(projectID)
	for _, part := range parts {
		p += "/" + part
	}
	return p
}
