package langdetect

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// Stats reports the cache state for diagnostics.
type Stats struct {
	Enabled bool     `json:"cache_enabled"`
	Size    int      `json:"cache_size"`
	Keys    []string `json:"cache_keys"`
}

// cache is an insertion-ordered, mutex-guarded digest→label map. Entries
// live until Clear; there is no TTL eviction.
type cache struct {
	mu     sync.Mutex
	labels map[string]string
	order  []string
}

func newCache() *cache {
	return &cache{labels: make(map[string]string)}
}

// Key computes the content digest for the full text. The digest always covers
// the entire input so identical texts hit the same slot regardless of the
// sampling applied later.
func Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func (c *cache) get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	label, ok := c.labels[key]
	return label, ok
}

func (c *cache) put(key, label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.labels[key]; !exists {
		c.order = append(c.order, key)
	}
	c.labels[key] = label
}

func (c *cache) clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := len(c.labels)
	c.labels = make(map[string]string)
	c.order = nil
	return removed
}

func (c *cache) stats(enabled bool) Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, len(c.order))
	copy(keys, c.order)
	return Stats{Enabled: enabled, Size: len(c.labels), Keys: keys}
}
