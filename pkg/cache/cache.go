// Package cache stores rendered artifacts and derived data by content key.
//
// Keys are built by a [Keyer] from the hash of the exported schematic graph,
// so any edit to the drawing produces new keys and stale entries simply age
// out. Three backends implement [Cache]:
//
//   - [NullCache]: caching disabled
//   - [FileCache]: entries as JSON files under a directory, for the CLI
//   - [RedisCache]: shared entries for the HTTP editing server
//
// # Usage
//
//	c, err := cache.NewFileCache(dir)
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	key := cache.NewDefaultKeyer().ArtifactKey(graphHash, cache.ArtifactKeyOpts{Format: "svg"})
//	if data, hit, _ := c.Get(ctx, key); hit {
//	    return data, nil
//	}
package cache

import (
	"context"
	"time"
)

// Cache is the interface for artifact cache backends.
type Cache interface {
	// Get returns the cached value and whether it was found. A miss is not
	// an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Default entry lifetimes.
const (
	TTLNetlist  = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// =============================================================================
// Keys
// =============================================================================

// ArtifactKeyOpts holds every render option that changes artifact bytes.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Cell     int     `json:"cell,omitempty"`
	Columns  int     `json:"columns,omitempty"`
	Rows     int     `json:"rows,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
	Top      string  `json:"top,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// NetlistKey returns the key for the nets derived from a graph.
	NetlistKey(graphHash string) string

	// ArtifactKey returns the key for one rendered output of a graph.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key parts with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) NetlistKey(graphHash string) string {
	return hashKey("netlist", graphHash)
}

func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}

var _ Keyer = DefaultKeyer{}
