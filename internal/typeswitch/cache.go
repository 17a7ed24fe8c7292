package typeswitch

import (
	"sync"

	"github.com/goliatone/go-cms-sections/internal/assets"
	"github.com/goliatone/go-cms-sections/pkg/interfaces"
)

// Draft is the value a field group holds for one representation.
type Draft struct {
	URL  string
	File *interfaces.File
}

// IsEmpty reports whether the draft carries neither a url nor a file.
func (d Draft) IsEmpty() bool {
	return d.URL == "" && d.File == nil
}

func (d Draft) clone() Draft {
	if d.File == nil {
		return d
	}
	file := *d.File
	d.File = &file
	return d
}

// Cache keeps the draft entered under each representation of one entry so a
// type toggle never discards what the editor typed or selected.
type Cache struct {
	mu     sync.Mutex
	drafts map[assets.Kind]Draft
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{drafts: make(map[assets.Kind]Draft)}
}

// Switch snapshots current under from and returns the draft to show for to.
// A representation that was never visited yields an empty draft.
func (c *Cache) Switch(from, to assets.Kind, current Draft) Draft {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.drafts == nil {
		c.drafts = make(map[assets.Kind]Draft)
	}
	if from != "" {
		c.drafts[from] = current.clone()
	}
	if draft, ok := c.drafts[to]; ok {
		return draft.clone()
	}
	return Draft{}
}

// Lookup returns the cached draft for kind.
func (c *Cache) Lookup(kind assets.Kind) (Draft, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	draft, ok := c.drafts[kind]
	if !ok {
		return Draft{}, false
	}
	return draft.clone(), true
}

// Len reports how many representations have a cached draft.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.drafts)
}

// Reset drops every cached draft.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drafts = make(map[assets.Kind]Draft)
}
