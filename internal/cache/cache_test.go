package cache

import (
	"testing"
	"time"
)

func TestSetGetRoundTrip(t *testing.T) {
	c, err := New(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	entry := &Entry{Body: []byte(`{"data":[]}`), ETag: `"abc"`, StatusCode: 200}
	if err := c.Set("https://api.imagerouter.io/v1/models", entry); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, fresh := c.Get("https://api.imagerouter.io/v1/models")
	if got == nil || !fresh {
		t.Fatalf("Get = %v, fresh=%v, want fresh entry", got, fresh)
	}
	if string(got.Body) != `{"data":[]}` {
		t.Errorf("Body = %q", got.Body)
	}
	if got.ETag != `"abc"` {
		t.Errorf("ETag = %q", got.ETag)
	}
}

func TestMissingKey(t *testing.T) {
	c, err := New(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if got, fresh := c.Get("nope"); got != nil || fresh {
		t.Errorf("Get(miss) = %v, %v; want nil, false", got, fresh)
	}
}

func TestStaleEntryReturnedForRevalidation(t *testing.T) {
	c, err := New(t.TempDir(), time.Nanosecond)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := c.Set("k", &Entry{Body: []byte("old"), ETag: `"v1"`, StatusCode: 200}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	got, fresh := c.Get("k")
	if fresh {
		t.Error("entry past TTL should not be fresh")
	}
	if got == nil || got.ETag != `"v1"` {
		t.Errorf("stale entry should still be returned for conditional fetch, got %v", got)
	}
}

func TestInvalidate(t *testing.T) {
	c, err := New(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	c.Set("k", &Entry{Body: []byte("x"), StatusCode: 200})
	c.Invalidate("k")

	if got, _ := c.Get("k"); got != nil {
		t.Error("Invalidate should remove the entry")
	}
}
