// Package cache stores rendered charts and loaded datasets between runs.
//
// # Backends
//
// [Cache] has four implementations:
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a Redis server, shared by several service instances
//   - [MongoCache]: a MongoDB collection with a TTL index
//   - [NullCache]: stores nothing (caching disabled)
//
// Use [Open] to create a backend from configuration.
//
// # Keys
//
// A [Keyer] derives keys from the snapshot directory fingerprint and the
// options that influence the output. A new snapshot file changes the
// fingerprint, so stale charts are never served:
//
//	key := keyer.ChartKey(fingerprint, cache.ChartKeyOpts{Format: "png", Width: 1000, Height: 700})
//	if data, hit, _ := c.Get(ctx, key); hit {
//	    return data
//	}
package cache

import (
	"context"
	"time"
)

// TTLs per entry kind. Snapshots are published daily, so nothing needs to
// live much longer than a day.
const (
	TTLChart   = 24 * time.Hour
	TTLDataset = 24 * time.Hour
)

// Cache is a byte-oriented key-value store with expiration.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value of key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend's resources.
	Close() error
}

// ChartKeyOpts lists the options that change a rendered chart.
type ChartKeyOpts struct {
	Format      string   `json:"format"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	Percent     bool     `json:"percent"`
	Precision   int      `json:"precision,omitempty"`
	NoiseFloor  float64  `json:"noise_floor"`
	Target      int      `json:"target"`
	Font        string   `json:"font,omitempty"`
	FontSize    float64  `json:"font_size,omitempty"`
	Supersample int      `json:"supersample,omitempty"`
	Families    []string `json:"families,omitempty"`
	RemoteURL   string   `json:"remote_url,omitempty"`
}

// DatasetKeyOpts lists the options that change a loaded dataset.
type DatasetKeyOpts struct {
	Percent  bool     `json:"percent"`
	Target   int      `json:"target"`
	Families []string `json:"families,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	ChartKey(fingerprint string, opts ChartKeyOpts) string
	DatasetKey(fingerprint string, opts DatasetKeyOpts) string
}

// DefaultKeyer hashes the fingerprint and options into "<kind>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ChartKey returns the key of a rendered chart.
func (DefaultKeyer) ChartKey(fingerprint string, opts ChartKeyOpts) string {
	return hashKey("chart", fingerprint, opts)
}

// DatasetKey returns the key of a loaded dataset.
func (DefaultKeyer) DatasetKey(fingerprint string, opts DatasetKeyOpts) string {
	return hashKey("dataset", fingerprint, opts)
}
