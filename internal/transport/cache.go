package transport

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// cacheEntry is the on-disk shape of one cache file (§6's response-
// cache layout): {timestamp: ms_since_epoch, url: string, data: ...}.
type cacheEntry struct {
	Timestamp int64           `json:"timestamp"`
	URL       string          `json:"url"`
	Data      json.RawMessage `json:"data"`
}

// ResponseCache is a filesystem directory with one file per entry,
// named <sha256-of-key>.json. Writes are last-writer-wins; no file
// locking is attempted (§9).
type ResponseCache struct {
	dir      string
	ttl      time.Duration
	disabled bool
}

// NewResponseCache creates a response cache rooted at dir. The
// directory is created lazily on first write.
func NewResponseCache(dir string, ttl time.Duration, disabled bool) *ResponseCache {
	return &ResponseCache{dir: dir, ttl: ttl, disabled: disabled}
}

// cacheKey returns the SHA-256 hex digest of the URL plus, for POST
// requests, the canonicalized body.
func cacheKey(url string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(url))
	if len(body) > 0 {
		h.Write(body)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (c *ResponseCache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// Get returns the cached payload for (url, body), or ok=false if
// disabled, missing, unreadable, or older than the configured TTL.
func (c *ResponseCache) Get(url string, body []byte) (payload json.RawMessage, ok bool) {
	if c.disabled {
		return nil, false
	}

	raw, err := os.ReadFile(c.path(cacheKey(url, body)))
	if err != nil {
		return nil, false
	}

	var entry cacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false
	}

	age := time.Since(time.UnixMilli(entry.Timestamp))
	if age > c.ttl {
		return nil, false
	}

	return entry.Data, true
}

// Put stores payload for (url, body). A write failure is not fatal to
// the caller — the transport treats it as a WARN-and-continue
// degrade, matching §7's per-URL cache failure handling.
func (c *ResponseCache) Put(url string, body []byte, payload json.RawMessage) error {
	if c.disabled {
		return nil
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}

	entry := cacheEntry{
		Timestamp: time.Now().UnixMilli(),
		URL:       url,
		Data:      payload,
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	// Write to a uniquely-named temp file then rename into place: two
	// concurrent writers for the same key never observe a half-written
	// file, only a clean last-writer-wins swap (§5's "last-writer-wins"
	// cache note).
	tmpPath := filepath.Join(c.dir, uuid.NewString()+".tmp")
	if err := os.WriteFile(tmpPath, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpPath, c.path(cacheKey(url, body)))
}

// Clear removes every entry from the cache directory.
func (c *ResponseCache) Clear() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Stats reports the number of entries currently on disk and the total
// bytes they occupy, backing the `cache stats` CLI collaborator (§6,
// §12).
type CacheStats struct {
	Entries   int
	TotalSize int64
}

// Stats returns current cache occupancy.
func (c *ResponseCache) Stats() (CacheStats, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return CacheStats{}, nil
		}
		return CacheStats{}, err
	}

	stats := CacheStats{Entries: len(entries)}
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		stats.TotalSize += info.Size()
	}
	return stats, nil
}
