package parser

import (
	"github.com/cespare/xxhash/v2"
	"github.com/maypok86/otter"
)

// ParseResult is the cacheable outcome of one parse.
type ParseResult struct {
	Elements []CodeElement
	Imports  []string
}

// Cache stores parse results keyed by a content hash, so watch mode and
// repeated runs skip re-parsing unchanged files. Entries are evicted by
// the underlying cache once capacity is reached.
type Cache struct {
	entries otter.Cache[uint64, ParseResult]
}

// NewCache creates a parse cache holding up to capacity results.
func NewCache(capacity int) (*Cache, error) {
	entries, err := otter.MustBuilder[uint64, ParseResult](capacity).Build()
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries}, nil
}

// Get returns the cached result for this language and content, if present.
func (c *Cache) Get(lang Language, content []byte) (ParseResult, bool) {
	return c.entries.Get(cacheKey(lang, content))
}

// Put stores a parse result.
func (c *Cache) Put(lang Language, content []byte, result ParseResult) {
	c.entries.Set(cacheKey(lang, content), result)
}

// Close releases the cache's resources.
func (c *Cache) Close() {
	c.entries.Close()
}

// cacheKey hashes language tag plus content. The language is included
// because the same bytes parse differently under different grammars.
func cacheKey(lang Language, content []byte) uint64 {
	digest := xxhash.New()
	digest.WriteString(string(lang))
	digest.Write(content)
	return digest.Sum64()
}
