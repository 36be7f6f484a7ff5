package assistant

import (
	"encoding/json"
	"os"
	"strings"
	"sync"
	"time"

	"pepuhub/pkg/logger"
)

// KnownTokenCache holds the name/symbol → address lookup table loaded
// from a JSON file, cached in memory with a freshness window. The file
// shape is { "tokens": { lowercaseKey: "0xaddress" } }.
//
// Multiple keys may map to the same address (symbol, name, "$symbol"
// variants); that is intentional match tolerance, not a data bug.
type KnownTokenCache struct {
	path string
	ttl  time.Duration
	now  func() time.Time

	mu       sync.RWMutex
	table    map[string]string
	loadedAt time.Time

	log *logger.Logger
}

type knownTokensFile struct {
	Tokens map[string]string `json:"tokens"`
}

// NewKnownTokenCache creates the cache. Nothing is loaded until the
// first lookup.
func NewKnownTokenCache(path string, ttl time.Duration) *KnownTokenCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &KnownTokenCache{
		path: path,
		ttl:  ttl,
		now:  time.Now,
		log:  logger.Get().With("component", "known_tokens"),
	}
}

// Lookup resolves a normalized (lowercase, trimmed) key to an address.
func (c *KnownTokenCache) Lookup(key string) (string, bool) {
	c.ensureFresh()

	c.mu.RLock()
	defer c.mu.RUnlock()

	addr, ok := c.table[strings.ToLower(strings.TrimSpace(key))]
	return addr, ok
}

// Size returns the number of keys currently loaded.
func (c *KnownTokenCache) Size() int {
	c.ensureFresh()

	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.table)
}

// Refresh drops the cached table and reloads it immediately, returning
// the new key count.
func (c *KnownTokenCache) Refresh() int {
	table := c.load()

	c.mu.Lock()
	c.table = table
	c.loadedAt = c.now()
	c.mu.Unlock()

	return len(table)
}

// expired is a pure freshness predicate.
func (c *KnownTokenCache) expired(now time.Time) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.table == nil || now.Sub(c.loadedAt) > c.ttl
}

func (c *KnownTokenCache) ensureFresh() {
	if c.expired(c.now()) {
		c.Refresh()
	}
}

// load reads the JSON file; any failure falls back to the hardcoded
// table so resolution keeps working without the file.
func (c *KnownTokenCache) load() map[string]string {
	data, err := os.ReadFile(c.path)
	if err != nil {
		c.log.Warnw("known tokens file unavailable, using fallback table", "path", c.path, "error", err)
		return fallbackTokenTable()
	}

	var file knownTokensFile
	if err := json.Unmarshal(data, &file); err != nil || len(file.Tokens) == 0 {
		c.log.Warnw("known tokens file malformed, using fallback table", "path", c.path, "error", err)
		return fallbackTokenTable()
	}

	table := make(map[string]string, len(file.Tokens))
	for k, v := range file.Tokens {
		table[strings.ToLower(strings.TrimSpace(k))] = strings.ToLower(v)
	}

	c.log.Infow("known tokens loaded", "count", len(table))
	return table
}

// fallbackTokenTable covers the treasury's core tokens so the assistant
// stays useful when the lookup file is missing.
func fallbackTokenTable() map[string]string {
	return map[string]string{
		"pepu":           "0x93aa0ccd1e5628d3a841c4dbdf602d9eb04085d6",
		"wpepu":          "0x93aa0ccd1e5628d3a841c4dbdf602d9eb04085d6",
		"$pepu":          "0x93aa0ccd1e5628d3a841c4dbdf602d9eb04085d6",
		"pepe unchained": "0x93aa0ccd1e5628d3a841c4dbdf602d9eb04085d6",
		"penk":           "0x82f0b8b456c1a451378467398982d4834b6829c1",
		"$penk":          "0x82f0b8b456c1a451378467398982d4834b6829c1",
		"spring":         "0x1a2b9a1c2e1a3c1d4b5e6f708192a3b4c5d6e7f8",
		"$spring":        "0x1a2b9a1c2e1a3c1d4b5e6f708192a3b4c5d6e7f8",
	}
}
