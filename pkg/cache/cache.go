// Package cache provides byte-oriented caching for layout results and
// exported artifacts.
//
// # Backends
//
//   - [NullCache]: never stores anything; the default when caching is off
//   - [FileCache]: one JSON envelope per key under a directory (CLI use)
//   - [BadgerCache]: embedded persistent key/value store
//   - [RedisCache]: shared cache for a fleet of layout workers
//
// All backends honour a per-entry TTL. A zero TTL means "never expires".
//
// # Keys
//
// Keys are produced by a [Keyer]. The [DefaultKeyer] hashes the inputs that
// determine a result so equal inputs always share an entry:
//
//	key := cache.NewDefaultKeyer().LayoutKey(requestHash, "layered")
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values by key.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. ttl <= 0 keeps it until deleted.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey identifies a computed layout by the hash of its request and
	// the algorithm that produced it.
	LayoutKey(requestHash, algorithm string) string

	// ExportKey identifies an exported artifact by the hash of the scene it
	// was rendered from and its format.
	ExportKey(sceneHash, format string, scale float64) string
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(requestHash, algorithm string) string {
	return hashKey("layout", requestHash, algorithm)
}

func (DefaultKeyer) ExportKey(sceneHash, format string, scale float64) string {
	return hashKey("export", sceneHash, format, scale)
}

// NullCache is the backend for `cache.backend = "none"` and --no-cache:
// every lookup misses, so layouts and exports are always recomputed.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error { return nil }
func (NullCache) Close() error { return nil }

var (
	_ Cache = NullCache{}
	_ Keyer = DefaultKeyer{}
)
