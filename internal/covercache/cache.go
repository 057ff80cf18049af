package covercache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"tanko/internal/logging"
	"tanko/internal/textutil"
)

// Entry records a resolved cover URL for one provider and title.
type Entry struct {
	Provider string    `json:"provider"`
	Title    string    `json:"title"` // normalized title used as lookup key
	URL      string    `json:"url"`   // empty means the provider had no match
	CachedAt time.Time `json:"cached_at"`
}

// Cache provides thread-safe access to the cover URL cache.
type Cache struct {
	path    string
	logger  *slog.Logger
	mu      sync.RWMutex
	entries map[string]Entry // keyed by provider + normalized title
}

// New creates a cache instance. If path is empty the cache is non-functional
// and all operations become no-ops. The cache file is created lazily on the
// first Store call.
func New(path string, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "covercache")

	c := &Cache{
		path:    path,
		logger:  logger,
		entries: make(map[string]Entry),
	}

	if path == "" {
		return c
	}

	if err := c.load(); err != nil {
		logger.Warn("failed to load cover cache",
			logging.Error(err),
			logging.String("path", path))
	}

	return c
}

// Lookup returns the cached entry for a provider and title if present.
// A hit with an empty URL means the provider was queried before and had
// no match, which callers should treat as a definitive miss.
func (c *Cache) Lookup(provider, title string) (Entry, bool) {
	key := cacheKey(provider, title)
	if key == "" || c.path == "" {
		return Entry{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, found := c.entries[key]
	return entry, found
}

// Store adds or updates an entry and persists the cache to disk.
func (c *Cache) Store(provider, title, coverURL string) error {
	key := cacheKey(provider, title)
	if key == "" {
		return errors.New("provider and title cannot be empty")
	}
	if c.path == "" {
		return nil // no-op when path not configured
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = Entry{
		Provider: strings.TrimSpace(provider),
		Title:    textutil.NormalizeTitle(title),
		URL:      coverURL,
		CachedAt: time.Now().UTC(),
	}

	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}

	c.logger.Debug("cached cover url",
		logging.String("provider", provider),
		logging.String("title", title),
		logging.Bool("matched", coverURL != ""))

	return nil
}

// Count returns the number of entries in the cache.
func (c *Cache) Count() int {
	if c.path == "" {
		return 0
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Clear removes all entries and persists the empty cache.
func (c *Cache) Clear() error {
	if c.path == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]Entry)

	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}

	c.logger.Debug("cleared cover cache")
	return nil
}

func cacheKey(provider, title string) string {
	provider = strings.TrimSpace(provider)
	normalized := textutil.NormalizeTitle(title)
	if provider == "" || normalized == "" {
		return ""
	}
	return provider + ":" + normalized
}

// load reads the cache from disk into memory.
func (c *Cache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil // fresh start
		}
		return fmt.Errorf("read cache file: %w", err)
	}

	if len(data) == 0 {
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse cache file: %w", err)
	}

	c.entries = make(map[string]Entry, len(entries))
	for _, entry := range entries {
		key := cacheKey(entry.Provider, entry.Title)
		if key != "" {
			c.entries[key] = entry
		}
	}

	c.logger.Debug("loaded cover cache",
		logging.Int("entry_count", len(c.entries)),
		logging.String("path", c.path))

	return nil
}

// save writes the cache to disk atomically.
func (c *Cache) save() error {
	entries := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		entries = append(entries, entry)
	}

	// Sort for deterministic output
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Provider != entries[j].Provider {
			return entries[i].Provider < entries[j].Provider
		}
		return entries[i].Title < entries[j].Title
	})

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath) // cleanup on failure
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
