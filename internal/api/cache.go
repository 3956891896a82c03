package api

import (
	"fmt"
	"sync/atomic"

	"github.com/dgallion1/tagextract/internal/outline"
	"github.com/dgallion1/tagextract/internal/pipeline"
	lru "github.com/hashicorp/golang-lru/v2"
)

type cachedDoc struct {
	doc *outline.Document
	idx *outline.TagIndex
}

// DocCache keeps recently classified documents and their tag indexes so
// repeated requests against the same text skip the line scan.
type DocCache struct {
	entries *lru.Cache[string, cachedDoc]
	hits    atomic.Int64
	misses  atomic.Int64
}

// CacheStats is a point-in-time view of cache usage.
type CacheStats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

func NewDocCache(size int) (*DocCache, error) {
	entries, err := lru.New[string, cachedDoc](size)
	if err != nil {
		return nil, fmt.Errorf("create document cache: %w", err)
	}
	return &DocCache{entries: entries}, nil
}

// Get returns the classified document for text, building it on a miss.
func (c *DocCache) Get(text string, d outline.Dialect, tabWidth int) (*outline.Document, *outline.TagIndex) {
	key := cacheKey(text, d, tabWidth)
	if e, ok := c.entries.Get(key); ok {
		c.hits.Add(1)
		return e.doc, e.idx
	}
	c.misses.Add(1)

	doc := outline.NewDocument(text, d, tabWidth)
	idx := outline.BuildIndex(doc)
	c.entries.Add(key, cachedDoc{doc: doc, idx: idx})
	return doc, idx
}

func (c *DocCache) Stats() CacheStats {
	return CacheStats{
		Entries: c.entries.Len(),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}

func cacheKey(text string, d outline.Dialect, tabWidth int) string {
	return fmt.Sprintf("%s:%s:%d", pipeline.ContentHashHex([]byte(text)), d.Name(), tabWidth)
}
