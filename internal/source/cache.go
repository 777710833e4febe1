package source

import (
	"container/list"
	"fmt"
	"sync"
	"time"

	"github.com/paulmach/orb"
)

// Cache keeps opened layers in memory with LRU eviction, so drawing the same
// files repeatedly does not decode them again.
//
// Memory use is estimated from feature and coordinate counts. A limit of 0
// means unlimited.
type Cache struct {
	maxMemory  int64
	usedMemory int64
	layers     map[string]*cacheEntry
	lru        *list.List // most recent at front
	mu         sync.Mutex
	open       func(path string) (*Layer, error)
}

type cacheEntry struct {
	path         string
	layer        *Layer
	memorySize   int64
	element      *list.Element
	lastAccessed time.Time
	accessCount  int
}

// CacheStats holds cache counters.
type CacheStats struct {
	LayerCount  int   // Layers currently cached
	UsedMemory  int64 // Estimated bytes in use
	MaxMemory   int64 // Limit in bytes, 0 for unlimited
	TotalAccess int   // Accesses across cached layers
}

// NewCache returns a cache holding up to maxMemoryBytes of layers read with
// Open.
func NewCache(maxMemoryBytes int64) *Cache {
	return &Cache{
		maxMemory: maxMemoryBytes,
		layers:    make(map[string]*cacheEntry),
		lru:       list.New(),
		open:      Open,
	}
}

// Open implements Opener, returning the cached layer for path or reading it
// on a miss.
func (c *Cache) Open(path string) (*Layer, error) {
	return c.Get(path, func() (*Layer, error) { return c.open(path) })
}

// Get returns the layer cached under key, calling loader on a miss. A layer
// too large for the cache is returned without being stored.
func (c *Cache) Get(key string, loader func() (*Layer, error)) (*Layer, error) {
	c.mu.Lock()
	if entry, ok := c.layers[key]; ok {
		entry.lastAccessed = time.Now()
		entry.accessCount++
		c.lru.MoveToFront(entry.element)
		c.mu.Unlock()
		return entry.layer, nil
	}
	c.mu.Unlock()

	layer, err := loader()
	if err != nil {
		return nil, fmt.Errorf("load layer: %w", err)
	}
	_ = c.Add(key, layer)
	return layer, nil
}

// Add stores layer under key, evicting least recently used layers to make
// room.
func (c *Cache) Add(key string, layer *Layer) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.layers[key]; ok {
		c.usedMemory -= entry.memorySize
		entry.layer = layer
		entry.memorySize = estimateLayerMemory(layer)
		entry.lastAccessed = time.Now()
		entry.accessCount++
		c.usedMemory += entry.memorySize
		c.lru.MoveToFront(entry.element)
		return nil
	}

	memSize := estimateLayerMemory(layer)
	if c.maxMemory > 0 && memSize > c.maxMemory {
		return fmt.Errorf("layer too large for cache (%d bytes > %d bytes max)", memSize, c.maxMemory)
	}
	if c.maxMemory > 0 {
		for c.usedMemory+memSize > c.maxMemory && c.lru.Len() > 0 {
			c.evictLRU()
		}
	}

	entry := &cacheEntry{
		path:         key,
		layer:        layer,
		memorySize:   memSize,
		lastAccessed: time.Now(),
		accessCount:  1,
	}
	entry.element = c.lru.PushFront(entry)
	c.layers[key] = entry
	c.usedMemory += memSize
	return nil
}

// evictLRU must be called with c.mu held.
func (c *Cache) evictLRU() {
	elem := c.lru.Back()
	if elem == nil {
		return
	}
	entry := elem.Value.(*cacheEntry)
	c.lru.Remove(elem)
	delete(c.layers, entry.path)
	c.usedMemory -= entry.memorySize
}

// Remove drops key from the cache.
func (c *Cache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.layers[key]; ok {
		c.lru.Remove(entry.element)
		delete(c.layers, key)
		c.usedMemory -= entry.memorySize
	}
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.layers = make(map[string]*cacheEntry)
	c.lru.Init()
	c.usedMemory = 0
}

// Stats returns current counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, entry := range c.layers {
		total += entry.accessCount
	}
	return CacheStats{
		LayerCount:  len(c.layers),
		UsedMemory:  c.usedMemory,
		MaxMemory:   c.maxMemory,
		TotalAccess: total,
	}
}

// estimateLayerMemory approximates a layer's footprint: 1KB base, 1KB per
// feature and 16 bytes per coordinate pair.
func estimateLayerMemory(l *Layer) int64 {
	if l == nil {
		return 0
	}
	size := int64(1024)
	for _, f := range l.features {
		size += 1024 + 16*int64(countPoints(f.Geometry))
	}
	return size
}

func countPoints(g orb.Geometry) int {
	switch g := g.(type) {
	case orb.Point:
		return 1
	case orb.MultiPoint:
		return len(g)
	case orb.LineString:
		return len(g)
	case orb.Ring:
		return len(g)
	case orb.MultiLineString:
		n := 0
		for _, ls := range g {
			n += len(ls)
		}
		return n
	case orb.Polygon:
		n := 0
		for _, r := range g {
			n += len(r)
		}
		return n
	case orb.MultiPolygon:
		n := 0
		for _, p := range g {
			n += countPoints(p)
		}
		return n
	case orb.Collection:
		n := 0
		for _, m := range g {
			n += countPoints(m)
		}
		return n
	}
	return 0
}
