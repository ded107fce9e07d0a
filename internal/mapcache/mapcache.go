// Package mapcache is the disk cache for fetched map layers. A broken cache
// degrades the tool to "always fetch fresh"; it never fails a generation run.
package mapcache

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"mapposter/internal/mapdata"
)

// Cache stores one gob-encoded MapData blob per geospatial key.
type Cache struct {
	mu  sync.Mutex
	dir string
	log *zap.Logger

	hits        uint64
	misses      uint64
	corruptions uint64
}

// Stats separates corrupt reads from true misses so a systemic corruption
// problem stays visible even though both read as "absent".
type Stats struct {
	Hits        uint64
	Misses      uint64
	Corruptions uint64
}

func New(dir string, log *zap.Logger) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &Cache{dir: dir, log: log}, nil
}

// Key derives the deterministic cache key for a geospatial query.
// Coordinates are fixed to six decimal places so logically identical queries
// hash identically across runs.
func Key(lat, lon float64, radius int) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%.6f|%.6f|%d", lat, lon, radius))
	return hex.EncodeToString(sum[:])[:16]
}

func (c *Cache) entryPath(lat, lon float64, radius int) string {
	return filepath.Join(c.dir, Key(lat, lon, radius)+".gob")
}

// Get returns the cached layers for the query, or ok=false when absent.
// An unreadable or undecodable entry counts as a miss, never an error.
func (c *Cache) Get(lat, lon float64, radius int) (*mapdata.MapData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	path := c.entryPath(lat, lon, radius)
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.corruptions++
			c.log.Warn("cache entry unreadable, fetching fresh", zap.String("path", path), zap.Error(err))
		} else {
			c.misses++
		}
		return nil, false
	}
	defer f.Close()

	var data mapdata.MapData
	if err := gob.NewDecoder(f).Decode(&data); err != nil {
		c.corruptions++
		c.log.Warn("cache entry corrupted, fetching fresh", zap.String("path", path), zap.Error(err))
		return nil, false
	}

	c.hits++
	c.log.Info("map data cache hit", zap.String("key", Key(lat, lon, radius)))
	return &data, true
}

// Put stores the layers under the query's key, silently overwriting any
// previous entry. Failures are logged and swallowed: the caller already
// holds the data in memory and the run must continue.
func (c *Cache) Put(lat, lon float64, radius int, data *mapdata.MapData) {
	c.mu.Lock()
	defer c.mu.Unlock()

	path := c.entryPath(lat, lon, radius)

	tmp, err := os.CreateTemp(c.dir, "entry-*")
	if err != nil {
		c.log.Warn("cache write failed, continuing", zap.String("path", path), zap.Error(err))
		return
	}
	tmpPath := tmp.Name()

	if err := gob.NewEncoder(tmp).Encode(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		c.log.Warn("cache write failed, continuing", zap.String("path", path), zap.Error(err))
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		c.log.Warn("cache write failed, continuing", zap.String("path", path), zap.Error(err))
		return
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		c.log.Warn("cache write failed, continuing", zap.String("path", path), zap.Error(err))
		return
	}

	c.log.Info("map data cached", zap.String("key", Key(lat, lon, radius)))
}

// Invalidate removes the entry for the query. Absent entries are a no-op.
func (c *Cache) Invalidate(lat, lon float64, radius int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	path := c.entryPath(lat, lon, radius)
	if err := os.Remove(path); err != nil {
		if !os.IsNotExist(err) {
			c.log.Warn("cache invalidation failed", zap.String("path", path), zap.Error(err))
		}
		return
	}
	c.log.Info("cache entry invalidated", zap.String("key", Key(lat, lon, radius)))
}

func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses, Corruptions: c.corruptions}
}
