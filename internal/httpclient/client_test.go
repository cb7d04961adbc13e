package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/imagerouter/imagerouter-go/internal/apperrors"
	"github.com/imagerouter/imagerouter-go/internal/cache"
)

func TestBearerAuthAndUserAgent(t *testing.T) {
	var gotAuth, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "sk-test-key")
	if _, err := c.Get(context.Background(), "/v1/models"); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if gotAuth != "Bearer sk-test-key" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotUA != userAgent {
		t.Errorf("User-Agent = %q, want %q", gotUA, userAgent)
	}
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   apperrors.Kind
	}{
		{"unauthorized", 401, `{"error":{"message":"invalid api key"}}`, apperrors.KindAuth},
		{"bad request", 400, `{"error":{"message":"invalid size"}}`, apperrors.KindValidation},
		{"model missing", 404, `{"error":{"message":"model not available"}}`, apperrors.KindModelNotFound},
		{"payment required", 402, `{"error":{"message":"top up your account"}}`, apperrors.KindInsufficientCredits},
		{"credit message", 403, `{"error":{"message":"not enough credits"}}`, apperrors.KindInsufficientCredits},
		{"provider failure", 502, `{"error":{"message":"upstream error"}}`, apperrors.KindGeneration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := New(srv.URL, "k")
			_, err := c.Get(context.Background(), "/v1/anything")
			if got := apperrors.KindOf(err); got != tt.want {
				t.Errorf("kind = %q, want %q (err: %v)", got, tt.want, err)
			}
		})
	}
}

func TestErrorMessageFromEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(400)
		w.Write([]byte(`{"error":{"message":"duration not supported"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "k")
	_, err := c.Get(context.Background(), "/v1/x")
	if err == nil || err.Error() != "duration not supported" {
		t.Errorf("err = %v, want envelope message", err)
	}
}

func TestRetriesRateLimitThenSucceeds(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(429)
			w.Write([]byte(`{"error":{"message":"slow down"}}`))
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "k", WithMaxRetries(3))
	resp, err := c.Get(context.Background(), "/v1/models")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if string(resp.Body) != `{"ok":true}` {
		t.Errorf("Body = %q", resp.Body)
	}
}

func TestRetriesTruncatedBodyWithBackoff(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			// Announce more bytes than we send so the client's read fails.
			w.Header().Set("Content-Length", "100")
			w.Write([]byte(`{"par`))
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "k", WithMaxRetries(3))
	start := time.Now()
	resp, err := c.Get(context.Background(), "/v1/models")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if string(resp.Body) != `{"ok":true}` {
		t.Errorf("Body = %q", resp.Body)
	}
	if elapsed := time.Since(start); elapsed < time.Second {
		t.Errorf("retry after %v, want at least one backoff interval", elapsed)
	}
}

func TestRateLimitExhaustsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(429)
		w.Write([]byte(`{"error":{"message":"slow down"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "k", WithMaxRetries(2))
	_, err := c.Get(context.Background(), "/v1/models")
	if got := apperrors.KindOf(err); got != apperrors.KindRateLimit {
		t.Errorf("kind = %q, want rate_limit (err: %v)", got, err)
	}
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(400)
		w.Write([]byte(`{"error":{"message":"bad"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "k", WithMaxRetries(3))
	c.Get(context.Background(), "/v1/models")
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on 400)", calls)
	}
}

func TestGetServesFromCache(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("ETag", `"v1"`)
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	fc, err := cache.New(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("cache.New failed: %v", err)
	}
	c := New(srv.URL, "k", WithCache(fc))

	for i := 0; i < 3; i++ {
		_ = i
		resp, err := c.Get(context.Background(), "/v1/models")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(resp.Body) != `{"data":[]}` {
			t.Errorf("Body = %q", resp.Body)
		}
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (served from cache)", calls)
	}
}

func TestConditionalRefetchOnStaleEntry(t *testing.T) {
	var gotIfNoneMatch string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIfNoneMatch = r.Header.Get("If-None-Match")
		if gotIfNoneMatch == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		w.Write([]byte(`{"data":[1]}`))
	}))
	defer srv.Close()

	fc, err := cache.New(t.TempDir(), time.Nanosecond) // everything stale immediately
	if err != nil {
		t.Fatalf("cache.New failed: %v", err)
	}
	c := New(srv.URL, "k", WithCache(fc))

	if _, err := c.Get(context.Background(), "/v1/models"); err != nil {
		t.Fatalf("first Get failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	resp, err := c.Get(context.Background(), "/v1/models")
	if err != nil {
		t.Fatalf("second Get failed: %v", err)
	}
	if gotIfNoneMatch != `"v1"` {
		t.Errorf("If-None-Match = %q, want cached etag", gotIfNoneMatch)
	}
	if !resp.FromCache || string(resp.Body) != `{"data":[1]}` {
		t.Errorf("304 should serve revalidated cache body, got FromCache=%v Body=%q", resp.FromCache, resp.Body)
	}
}

func TestPostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		w.Write([]byte(`{"created":1}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "k")
	var out struct {
		Created int `json:"created"`
	}
	if err := c.PostJSON(context.Background(), "/v1/auth/test", map[string]string{}, &out); err != nil {
		t.Fatalf("PostJSON failed: %v", err)
	}
	if out.Created != 1 {
		t.Errorf("Created = %d, want 1", out.Created)
	}
}
