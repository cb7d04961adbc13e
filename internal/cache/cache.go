// Package cache is a TTL file cache for API GET responses, mainly the
// model catalog, so repeated estimate and models invocations do not burn
// a network round trip each time.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Entry is one cached response. ETag and LastModified feed conditional
// refetches once the entry goes stale.
type Entry struct {
	Body         []byte    `json:"body"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	StatusCode   int       `json:"status_code"`
	StoredAt     time.Time `json:"stored_at"`
}

// FileCache stores entries as JSON files keyed by the hash of the URL.
type FileCache struct {
	dir string
	ttl time.Duration
}

// New creates the cache directory if needed.
func New(dir string, ttl time.Duration) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	return &FileCache{dir: dir, ttl: ttl}, nil
}

// Get returns the entry for key. fresh is false when the entry is past
// its TTL; the stale entry is still returned so the caller can revalidate
// with If-None-Match / If-Modified-Since instead of a full refetch.
func (c *FileCache) Get(key string) (entry *Entry, fresh bool) {
	path := c.path(key)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		// Corrupt entry, drop it.
		os.Remove(path)
		return nil, false
	}

	return &e, time.Since(e.StoredAt) <= c.ttl
}

// Set stores an entry, stamping its storage time.
func (c *FileCache) Set(key string, entry *Entry) error {
	entry.StoredAt = time.Now()
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}
	return os.WriteFile(c.path(key), data, 0o644)
}

// Invalidate removes the entry for key, if any.
func (c *FileCache) Invalidate(key string) {
	os.Remove(c.path(key))
}

func (c *FileCache) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".json")
}
