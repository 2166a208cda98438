package translate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCachePutGet(t *testing.T) {
	c := newCache()

	_, ok := c.get("some text", "fr")
	assert.False(t, ok)

	c.put("some text", "fr", "du texte")
	got, ok := c.get("some text", "fr")
	assert.True(t, ok)
	assert.Equal(t, "du texte", got)

	// same text, different target language is a distinct entry
	_, ok = c.get("some text", "es")
	assert.False(t, ok)

	assert.Equal(t, 1, c.len())
}

func TestCacheKeyUsesLeadingRunes(t *testing.T) {
	c := newCache()

	prefix := strings.Repeat("x", cacheKeyRunes)
	c.put(prefix+" first tail", "fr", "traduction")

	// texts sharing the first 50 runes resolve to the same entry
	got, ok := c.get(prefix+" second tail", "fr")
	assert.True(t, ok)
	assert.Equal(t, "traduction", got)
}
