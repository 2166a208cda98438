package translate

import (
	"sync"

	"techwatch/internal/utils/text"
)

// cacheKeyRunes is how many leading runes of the source text participate in
// the cache key. Feed descriptions rarely share a 50-rune prefix without
// being the same text, and short keys keep the map cheap across large runs.
const cacheKeyRunes = 50

// cache memoizes translations for the lifetime of one run. It is safe for
// concurrent use by the translation workers.
type cache struct {
	mu      sync.RWMutex
	entries map[string]string
}

func newCache() *cache {
	return &cache{entries: make(map[string]string)}
}

// key derives the cache key from the source text and target language code.
func (c *cache) key(source, langCode string) string {
	return text.Truncate(source, cacheKeyRunes) + "|" + langCode
}

func (c *cache) get(source, langCode string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[c.key(source, langCode)]
	return v, ok
}

func (c *cache) put(source, langCode, translated string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[c.key(source, langCode)] = translated
}

func (c *cache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
