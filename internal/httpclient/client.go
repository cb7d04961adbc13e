// Package httpclient is the authenticated transport under the API client:
// bearer auth, rate limiting, response caching with conditional refetch,
// and retry with backoff for transient failures. It maps HTTP statuses to
// the error taxonomy; it never interprets response payloads beyond the
// service's error envelope.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/imagerouter/imagerouter-go/internal/apperrors"
	"github.com/imagerouter/imagerouter-go/internal/cache"
)

const userAgent = "imagerouter-go/0.1.0"

// Client is an HTTP client bound to one API base URL and key.
type Client struct {
	http       *http.Client
	baseURL    string
	limiter    *rate.Limiter
	cache      *cache.FileCache
	noCache    bool
	maxRetries int
	timeout    time.Duration
}

// Option configures the Client.
type Option func(*Client)

// WithCache enables file-based response caching for GETs.
func WithCache(c *cache.FileCache) Option {
	return func(cl *Client) { cl.cache = c }
}

// WithNoCache disables caching even when a cache is configured.
func WithNoCache() Option {
	return func(cl *Client) { cl.noCache = true }
}

// WithRateLimit sets requests per second.
func WithRateLimit(rps float64) Option {
	return func(cl *Client) {
		cl.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithMaxRetries sets how many attempts a request gets before the last
// transient error is returned.
func WithMaxRetries(n int) Option {
	return func(cl *Client) {
		if n > 0 {
			cl.maxRetries = n
		}
	}
}

// WithTimeout sets the per-request timeout. Video generation can run for
// minutes, so callers override the default where needed.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) { cl.timeout = d }
}

// New creates a client. The API key is attached to every request as a
// bearer token; an empty key sends unauthenticated requests (the service
// rejects them, which surfaces as an auth error).
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxRetries: 3,
		timeout:    5 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}

	transport := http.DefaultTransport
	if apiKey != "" {
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey}),
			Base:   http.DefaultTransport,
		}
	}
	c.http = &http.Client{Timeout: c.timeout, Transport: transport}
	return c
}

// Response is a completed API response body.
type Response struct {
	Body       []byte
	StatusCode int
	FromCache  bool
}

// Get performs a GET against an API path, serving from cache when fresh
// and revalidating stale entries with conditional headers.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	url := c.baseURL + path

	var stale *cache.Entry
	if c.cache != nil && !c.noCache {
		entry, fresh := c.cache.Get(url)
		if fresh {
			return &Response{Body: entry.Body, StatusCode: entry.StatusCode, FromCache: true}, nil
		}
		stale = entry
	}

	headers := map[string]string{}
	if stale != nil {
		if stale.ETag != "" {
			headers["If-None-Match"] = stale.ETag
		}
		if stale.LastModified != "" {
			headers["If-Modified-Since"] = stale.LastModified
		}
	}

	resp, httpResp, err := c.do(ctx, http.MethodGet, path, "", nil, headers)
	if err != nil {
		return nil, err
	}

	if httpResp != nil && httpResp.StatusCode == http.StatusNotModified && stale != nil {
		_ = c.cache.Set(url, stale) // refresh TTL
		return &Response{Body: stale.Body, StatusCode: stale.StatusCode, FromCache: true}, nil
	}

	if c.cache != nil && !c.noCache && httpResp != nil {
		_ = c.cache.Set(url, &cache.Entry{
			Body:         resp.Body,
			ETag:         httpResp.Header.Get("ETag"),
			LastModified: httpResp.Header.Get("Last-Modified"),
			StatusCode:   resp.StatusCode,
		})
	}
	return resp, nil
}

// GetJSON performs a GET and decodes the response into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	resp, err := c.Get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", path, err)
	}
	return nil
}

// PostJSON performs a POST with a JSON body and decodes the response into
// out when out is non-nil.
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request body: %w", err)
	}

	resp, _, err := c.do(ctx, http.MethodPost, path, "application/json", payload, nil)
	if err != nil {
		return err
	}
	if out != nil {
		if err := json.Unmarshal(resp.Body, out); err != nil {
			return fmt.Errorf("decoding response from %s: %w", path, err)
		}
	}
	return nil
}

// PostRaw performs a POST with a prebuilt body, used for multipart
// uploads where the caller owns the content type.
func (c *Client) PostRaw(ctx context.Context, path, contentType string, body []byte, out any) error {
	resp, _, err := c.do(ctx, http.MethodPost, path, contentType, body, nil)
	if err != nil {
		return err
	}
	if out != nil {
		if err := json.Unmarshal(resp.Body, out); err != nil {
			return fmt.Errorf("decoding response from %s: %w", path, err)
		}
	}
	return nil
}

// do runs one request with retries. Bodies are []byte so every attempt
// can resend them. The returned *http.Response carries headers only; its
// body is already consumed into Response.Body.
func (c *Client) do(ctx context.Context, method, path, contentType string, body []byte, headers map[string]string) (*Response, *http.Response, error) {
	url := c.baseURL + path
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, nil, apperrors.Wrap(apperrors.KindNetwork, err, "rate limit wait")
			}
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, apperrors.Wrap(apperrors.KindNetwork, ctx.Err(), "%s %s canceled", method, path)
			}
			lastErr = err
			if isTransient(err) && attempt < c.maxRetries-1 {
				if err := sleep(ctx, backoff(attempt)); err != nil {
					return nil, nil, apperrors.Wrap(apperrors.KindNetwork, err, "%s %s canceled", method, path)
				}
				continue
			}
			return nil, nil, apperrors.Wrap(apperrors.KindNetwork, err, "%s %s failed", method, path)
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			if attempt < c.maxRetries-1 {
				if err := sleep(ctx, backoff(attempt)); err != nil {
					return nil, nil, apperrors.Wrap(apperrors.KindNetwork, err, "%s %s canceled", method, path)
				}
			}
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < c.maxRetries-1 {
			if err := sleep(ctx, retryAfter(resp, attempt)); err != nil {
				return nil, nil, apperrors.Wrap(apperrors.KindNetwork, err, "%s %s canceled", method, path)
			}
			lastErr = apiError(resp.StatusCode, respBody)
			continue
		}

		if resp.StatusCode >= 400 {
			return nil, nil, apiError(resp.StatusCode, respBody)
		}

		return &Response{Body: respBody, StatusCode: resp.StatusCode}, resp, nil
	}

	return nil, nil, apperrors.Wrap(apperrors.KindNetwork, lastErr,
		"%s %s failed after %d attempts", method, path, c.maxRetries)
}

// errorEnvelope is the service's error body shape.
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// apiError maps an HTTP error status onto the taxonomy.
func apiError(status int, body []byte) error {
	var env errorEnvelope
	message := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &env); err == nil && env.Error.Message != "" {
		message = env.Error.Message
	}

	lower := strings.ToLower(message)
	switch {
	case status == http.StatusUnauthorized:
		return apperrors.FromStatus(apperrors.KindAuth, status, message)
	case status == http.StatusTooManyRequests:
		return apperrors.FromStatus(apperrors.KindRateLimit, status, message)
	case status == http.StatusBadRequest:
		return apperrors.FromStatus(apperrors.KindValidation, status, message)
	case status == http.StatusNotFound && strings.Contains(lower, "model"):
		return apperrors.FromStatus(apperrors.KindModelNotFound, status, message)
	case status == http.StatusPaymentRequired || strings.Contains(lower, "credit"):
		return apperrors.FromStatus(apperrors.KindInsufficientCredits, status, message)
	case status >= 500:
		return apperrors.FromStatus(apperrors.KindGeneration, status, message)
	default:
		return apperrors.FromStatus(apperrors.KindGeneration, status, message)
	}
}

func isTransient(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func backoff(attempt int) time.Duration {
	return time.Duration(1<<attempt) * time.Second
}

func retryAfter(resp *http.Response, attempt int) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return backoff(attempt)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
