package cache

import (
	"sync"

	"github.com/irlens/atlas/pkg/core"
)

type centroidKey struct {
	source string
	name   string
}

// CentroidCache memoizes country centroids per boundary source. Boundary files are
// immutable per URL, so entries never go stale.
type CentroidCache struct {
	mu        sync.RWMutex
	centroids map[centroidKey]core.LngLat
}

func NewCentroidCache() *CentroidCache {
	return &CentroidCache{
		centroids: make(map[centroidKey]core.LngLat),
	}
}

// Get returns the memoized centroid for a normalized country name in source.
func (c *CentroidCache) Get(source, name string) (core.LngLat, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.centroids[centroidKey{source, name}]
	return p, ok
}

func (c *CentroidCache) Set(source, name string, p core.LngLat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.centroids[centroidKey{source, name}] = p
}

// Len reports the number of memoized centroids.
func (c *CentroidCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.centroids)
}
