/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver

import "bennypowers.dev/tsxpack/source"

type cacheKey struct {
	dir  string
	spec string
}

// Cache memoizes successful resolutions for one compile invocation.
// Entries are keyed by the importing file's directory, which is all the
// node algorithm depends on. Failures are not cached.
//
// Cache is not safe for concurrent use.
type Cache struct {
	next    Resolver
	entries map[cacheKey]source.File
	hits    int
	misses  int
}

// NewCache wraps next with a resolution cache.
func NewCache(next Resolver) *Cache {
	return &Cache{
		next:    next,
		entries: make(map[cacheKey]source.File),
	}
}

// Resolve implements Resolver.
func (c *Cache) Resolve(base source.File, spec string) (source.File, error) {
	key := cacheKey{dir: base.Dir(), spec: spec}
	if base.Kind != source.KindReal {
		return c.next.Resolve(base, spec)
	}
	if f, ok := c.entries[key]; ok {
		c.hits++
		return f, nil
	}

	c.misses++
	f, err := c.next.Resolve(base, spec)
	if err != nil {
		return source.File{}, err
	}
	c.entries[key] = f
	return f, nil
}

// Stats returns the number of cache hits and misses so far.
func (c *Cache) Stats() (hits, misses int) {
	return c.hits, c.misses
}
