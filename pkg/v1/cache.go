// Package kad is the high-level convenience API over pkg/kad: a parse cache,
// a bounded worker pool for batch imports, and an R-tree spatial index over
// a project's drawings/surfaces/holes.
package kad

import (
	"container/list"
	"fmt"
	"sync"
	"time"

	"github.com/beetlebugorg/kirrakad/pkg/kad"
)

// DocumentCache manages loaded Documents with LRU eviction.
//
// The cache stores fully-parsed documents in memory and evicts
// least-recently-used ones when memory limits are exceeded, keyed by the
// source file path plus its modification time so a stale cache entry never
// outlives an edited file.
//
// Example:
//
//	cache := kad.NewDocumentCache(256 * 1024 * 1024) // 256MB limit
//	doc, err := cache.Get("pattern1.kad", time.Now(), func() (*kad.Document, error) {
//	    return loadDocument("pattern1.kad")
//	})
type DocumentCache struct {
	maxMemory  int64
	usedMemory int64
	entries    map[string]*cacheEntry
	lru        *list.List
	mu         sync.RWMutex
}

type cacheEntry struct {
	key          string
	document     *kad.Document
	memorySize   int64
	element      *list.Element
	lastAccessed time.Time
	accessCount  int
}

// NewDocumentCache creates a cache with the given memory limit in bytes.
// Zero means unlimited.
func NewDocumentCache(maxMemoryBytes int64) *DocumentCache {
	return &DocumentCache{
		maxMemory: maxMemoryBytes,
		entries:   make(map[string]*cacheEntry),
		lru:       list.New(),
	}
}

// cacheKey combines the path with its source modtime so edits invalidate
// the cache without an explicit Remove call.
func cacheKey(path string, modTime time.Time) string {
	return fmt.Sprintf("%s@%d", path, modTime.UnixNano())
}

// Get retrieves a document from cache or loads it via loader on a miss.
func (c *DocumentCache) Get(path string, modTime time.Time, loader func() (*kad.Document, error)) (*kad.Document, error) {
	key := cacheKey(path, modTime)

	c.mu.RLock()
	if entry, ok := c.entries[key]; ok {
		c.mu.RUnlock()
		c.mu.Lock()
		entry.lastAccessed = time.Now()
		entry.accessCount++
		c.lru.MoveToFront(entry.element)
		c.mu.Unlock()
		return entry.document, nil
	}
	c.mu.RUnlock()

	doc, err := loader()
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	if err := c.Add(key, doc); err != nil {
		return doc, nil // too large to cache; caller still gets the document
	}
	return doc, nil
}

// Add inserts a document into the cache under key, evicting LRU entries as
// needed to stay under the memory limit.
func (c *DocumentCache) Add(key string, doc *kad.Document) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[key]; ok {
		entry.document = doc
		entry.lastAccessed = time.Now()
		entry.accessCount++
		c.lru.MoveToFront(entry.element)
		return nil
	}

	memSize := estimateDocumentMemory(doc)
	if c.maxMemory > 0 && memSize > c.maxMemory {
		return fmt.Errorf("document too large for cache (%d bytes > %d bytes max)", memSize, c.maxMemory)
	}

	if c.maxMemory > 0 {
		for c.usedMemory+memSize > c.maxMemory && c.lru.Len() > 0 {
			c.evictLRU()
		}
	}

	entry := &cacheEntry{key: key, document: doc, memorySize: memSize, lastAccessed: time.Now(), accessCount: 1}
	entry.element = c.lru.PushFront(entry)
	c.entries[key] = entry
	c.usedMemory += memSize
	return nil
}

func (c *DocumentCache) evictLRU() {
	elem := c.lru.Back()
	if elem == nil {
		return
	}
	entry := elem.Value.(*cacheEntry)
	c.lru.Remove(elem)
	delete(c.entries, entry.key)
	c.usedMemory -= entry.memorySize
}

// Remove explicitly evicts a cached document by its exact cache key.
func (c *DocumentCache) Remove(path string, modTime time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := cacheKey(path, modTime)
	if entry, ok := c.entries[key]; ok {
		c.lru.Remove(entry.element)
		delete(c.entries, key)
		c.usedMemory -= entry.memorySize
	}
}

// Clear removes every cached document.
func (c *DocumentCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
	c.lru.Init()
	c.usedMemory = 0
}

// Stats returns cache performance metrics.
func (c *DocumentCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	totalAccess := 0
	for _, e := range c.entries {
		totalAccess += e.accessCount
	}
	return CacheStats{DocumentCount: len(c.entries), UsedMemory: c.usedMemory, MaxMemory: c.maxMemory, TotalAccess: totalAccess}
}

// CacheStats holds cache performance metrics.
type CacheStats struct {
	DocumentCount int
	UsedMemory    int64
	MaxMemory     int64
	TotalAccess   int
}

// estimateDocumentMemory approximates memory usage: a base overhead plus
// per-hole, per-drawing-vertex, and per-mesh-point costs.
func estimateDocumentMemory(doc *kad.Document) int64 {
	if doc == nil {
		return 0
	}
	size := int64(1024)
	size += int64(len(doc.Holes())) * 512

	for _, d := range doc.Drawings() {
		size += int64(len(d.Vertices)) * 48
	}
	for _, s := range doc.Surfaces() {
		size += int64(len(s.Points))*24 + int64(len(s.Triangles))*32
	}
	return size
}
