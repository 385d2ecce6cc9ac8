// Package cache stores resolved layouts between CLI invocations.
//
// Resolution itself is pure and fast, but large layouts with many mirrored
// placements and rendered reference graphs are worth keeping. Entries are
// addressed by content: the key of a result is derived from the hash of the
// layout file bytes plus every option that changes the output, so an edited
// file never returns a stale result.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance, for teams and CI
//   - [NullCache]: caching disabled
//
// All backends are safe for concurrent use.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value stored under key. hit is false when the key is
	// absent or expired; that is not an error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default expiries.
const (
	// TTLResult is the lifetime of a resolved layout.
	TTLResult = 7 * 24 * time.Hour

	// TTLGraph is the lifetime of a rendered reference graph.
	TTLGraph = 7 * 24 * time.Hour
)

// Keyer derives cache keys.
type Keyer interface {
	// ResultKey is the key of a resolved layout.
	ResultKey(layoutHash string, opts ResultKeyOpts) string

	// GraphKey is the key of a rendered reference graph.
	GraphKey(layoutHash string, opts GraphKeyOpts) string
}

// ResultKeyOpts lists the options that change a resolved layout.
type ResultKeyOpts struct {
	Format     string `json:"format"`
	NoMirror   bool   `json:"no_mirror,omitempty"`
	MaxDepth   int    `json:"max_depth,omitempty"`
	Variables  string `json:"variables,omitempty"`
	SeedPoints string `json:"seed_points,omitempty"`
}

// GraphKeyOpts lists the options that change a rendered reference graph.
type GraphKeyOpts struct {
	Resolve  ResultKeyOpts `json:"resolve"`
	Format   string        `json:"format"`
	Detailed bool          `json:"detailed,omitempty"`
	Scale    float64       `json:"scale,omitempty"`
}

// NullCache disables caching: every lookup misses and nothing is stored.
// The pipeline checks [Enabled] and skips encoding results for it.
type NullCache struct{}

// NewNullCache returns a disabled cache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

// Enabled reports whether c can ever return a hit.
func Enabled(c Cache) bool {
	switch c.(type) {
	case nil, NullCache, *NullCache:
		return false
	}
	return true
}
