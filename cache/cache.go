package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/urlkit/urlkit/internal/config"
	"github.com/urlkit/urlkit/internal/logging"
)

// ErrMiss reports that no fresh entry exists for a key.
var ErrMiss = errors.New("cache: miss")

// Request headers that select a distinct response for the same URL.
var varyHeaders = []string{"Accept", "Authorization", "Range"}

// Cache stores HTTP responses on disk.
type Cache struct {
	dir    string
	maxAge time.Duration
	logger *logging.Logger
}

// entry is the on-disk representation of a cached response.
type entry struct {
	Status   int         `json:"status"`
	Header   http.Header `json:"header"`
	Body     []byte      `json:"body"` // gzip-compressed
	FinalURL string      `json:"final_url"`
	CachedAt time.Time   `json:"cached_at"`
}

// Option configures a Cache.
type Option func(*Cache)

// WithDir overrides the base directory the named cache lives under.
func WithDir(dir string) Option {
	return func(c *Cache) {
		if dir != "" {
			c.dir = dir
		}
	}
}

// WithMaxAge sets how long entries stay fresh. Zero or negative means
// entries never expire.
func WithMaxAge(maxAge time.Duration) Option {
	return func(c *Cache) {
		c.maxAge = maxAge
	}
}

// WithLogger sets the logger the cache writes hit/miss events to.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a cache named name. Without WithDir the directory is
// <user cache dir>/<name>, created on first use.
func New(name string, opts ...Option) (*Cache, error) {
	if name == "" {
		return nil, errors.New("cache: name must not be empty")
	}

	cfg := config.LoadOrDefault().Cache
	c := &Cache{
		dir:    cfg.Dir,
		maxAge: cfg.MaxAge,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("cache: resolve user cache dir: %w", err)
		}
		c.dir = base
	}
	c.dir = filepath.Join(c.dir, name)

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create %s: %w", c.dir, err)
	}
	return c, nil
}

// Dir returns the directory entries are stored in.
func (c *Cache) Dir() string {
	return c.dir
}

// Key derives the cache key for a request from its method, URL, and
// the response-selecting headers.
func Key(req *http.Request) string {
	h := sha256.New()
	h.Write([]byte(req.Method))
	h.Write([]byte{0x1f})
	h.Write([]byte(req.URL.String()))
	for _, name := range varyHeaders {
		h.Write([]byte{0x1f})
		h.Write([]byte(req.Header.Get(name)))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get loads the entry for key. It returns ErrMiss when the entry is
// absent, stale, or unreadable.
func (c *Cache) Get(key string) (*http.Response, error) {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return nil, ErrMiss
	}

	var e entry
	if err := sonic.Unmarshal(data, &e); err != nil {
		c.logger.Debug("discarding corrupt entry", zap.String("key", key), zap.Error(err))
		return nil, ErrMiss
	}

	if c.maxAge > 0 && time.Since(e.CachedAt) > c.maxAge {
		c.logger.Debug("entry expired", zap.String("key", key), zap.Time("cached_at", e.CachedAt))
		return nil, ErrMiss
	}

	body, err := decompress(e.Body)
	if err != nil {
		c.logger.Debug("discarding corrupt body", zap.String("key", key), zap.Error(err))
		return nil, ErrMiss
	}

	header := e.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}
	header.Set("X-Cache", "HIT")

	c.logger.Debug("hit", zap.String("key", key), zap.String("url", e.FinalURL))
	return &http.Response{
		StatusCode:    e.Status,
		Status:        fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status)),
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
	}, nil
}

// Set stores a response body under key. The caller keeps ownership of
// body; the response's own Body is not consumed here.
func (c *Cache) Set(key string, resp *http.Response, body []byte) error {
	compressed, err := compress(body)
	if err != nil {
		return fmt.Errorf("cache: compress body: %w", err)
	}

	finalURL := ""
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	e := entry{
		Status:   resp.StatusCode,
		Header:   resp.Header.Clone(),
		Body:     compressed,
		FinalURL: finalURL,
		CachedAt: time.Now(),
	}

	data, err := sonic.Marshal(e)
	if err != nil {
		return fmt.Errorf("cache: encode entry: %w", err)
	}

	path := c.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("cache: write entry: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cache: write entry: %w", err)
	}

	c.logger.Debug("stored", zap.String("key", key), zap.Int("size", len(body)))
	return nil
}

// Delete removes the entry for key, if any.
func (c *Cache) Delete(key string) error {
	err := os.Remove(c.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("cache: delete entry: %w", err)
	}
	return nil
}

// Clear removes every entry and the cache directory itself. The cache
// recreates the directory on the next Set.
func (c *Cache) Clear() error {
	if err := os.RemoveAll(c.dir); err != nil {
		return fmt.Errorf("cache: clear %s: %w", c.dir, err)
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("cache: recreate %s: %w", c.dir, err)
	}
	return nil
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
