package render

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultTTL is how long a cached frame stays valid.
const DefaultTTL = 24 * time.Hour

// Key identifies a rendered frame. Binding to the source's modification
// time instead of a content hash is cheap but means a content change
// without an mtime change goes unnoticed until the TTL runs out; that
// staleness window is accepted behavior.
type Key struct {
	Path   string
	MTime  int64
	Height int
	Width  int
	Mode   Mode
}

// sum returns the hex SHA-256 of the key tuple, used as the cache file
// name. Collisions are negligible, so the namespace stays flat.
func (k Key) sum() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%d\x00%d\x00%d\x00%d", k.Path, k.MTime, k.Height, k.Width, k.Mode)
	return hex.EncodeToString(h.Sum(nil))
}

// Cache memoizes rendered frames. Implementations never fail loudly: a
// broken read is a miss and a broken write is dropped, because the
// frame has already been rendered.
type Cache interface {
	Lookup(key Key) ([]string, bool)
	Store(key Key, lines []string)
}

// DirCache persists one file per key under dir, created lazily on first
// store. Entries expire after ttl, measured from the cache file's own
// modification time. There is no cross-process locking: concurrent
// writers race and the last one wins, and a reader that catches a
// partial file simply recomputes.
type DirCache struct {
	dir    string
	ttl    time.Duration
	logger *log.Logger
}

// NewDirCache creates a file-backed cache. A non-positive ttl falls
// back to DefaultTTL.
func NewDirCache(dir string, ttl time.Duration, logger *log.Logger) *DirCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = log.Default()
	}
	return &DirCache{dir: dir, ttl: ttl, logger: logger}
}

// Dir returns the cache directory.
func (c *DirCache) Dir() string { return c.dir }

// Lookup returns the cached lines for key if present and younger than
// the TTL. Any stat or read failure is a miss.
func (c *DirCache) Lookup(key Key) ([]string, bool) {
	path := filepath.Join(c.dir, key.sum())

	fi, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if time.Since(fi.ModTime()) >= c.ttl {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		c.logger.Debug("cache read failed", "err", &CacheIOError{Op: "read", Err: err})
		return nil, false
	}
	return strings.Split(string(data), "\n"), true
}

// Store writes the frame for key, replacing any previous entry. Write
// failures are logged and swallowed.
func (c *DirCache) Store(key Key, lines []string) {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		c.logger.Debug("cache dir failed", "err", &CacheIOError{Op: "mkdir", Err: err})
		return
	}
	path := filepath.Join(c.dir, key.sum())
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		c.logger.Debug("cache write failed", "err", &CacheIOError{Op: "write", Err: err})
	}
}

// MemCache is a process-local cache for tests and interactive preview.
type MemCache struct {
	mu      sync.Mutex
	entries map[string][]string
}

// NewMemCache creates an empty in-memory cache.
func NewMemCache() *MemCache {
	return &MemCache{entries: make(map[string][]string)}
}

func (c *MemCache) Lookup(key Key) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines, ok := c.entries[key.sum()]
	return lines, ok
}

func (c *MemCache) Store(key Key, lines []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key.sum()] = append([]string(nil), lines...)
}

// NopCache never hits and never stores; it backs --no-cache.
type NopCache struct{}

func (NopCache) Lookup(Key) ([]string, bool) { return nil, false }
func (NopCache) Store(Key, []string)         {}
