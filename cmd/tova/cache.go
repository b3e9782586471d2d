package main

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tova-lang/tova/pkg/tova"
)

// docCache holds the last analyzed Result per open document URI. Hover is
// the only LSP query that reads it; the other recognized queries answer an
// empty result without consulting the cache.
type docCache struct {
	cache *lru.Cache[string, *tova.Result]
}

// newDocCache bounds the LSP's per-document cache the same way the
// teacher bounds its artifact cache: a fixed-size LRU rather than an
// unbounded map, so a long editor session with many opened files doesn't
// grow without limit.
func newDocCache(size int) *docCache {
	c, err := lru.New[string, *tova.Result](size)
	if err != nil {
		panic(err) // only returns an error for a non-positive size, a programmer error
	}
	return &docCache{cache: c}
}

func (d *docCache) put(uri string, res *tova.Result) {
	d.cache.Add(uri, res)
}

func (d *docCache) get(uri string) (*tova.Result, bool) {
	return d.cache.Get(uri)
}

func (d *docCache) remove(uri string) {
	d.cache.Remove(uri)
}
