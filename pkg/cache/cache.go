// Package cache stores rendered artifacts and loaded events between runs.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache]
// for the HTTP server, and [NullCache] when caching is off. Keys come from
// a [Keyer] so every caller derives them the same way:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.ArtifactKey(eventsHash, cache.ArtifactKeyOpts{Format: "svg"})
//	if data, hit, err := c.Get(ctx, key); err == nil && hit {
//	    return data, nil
//	}
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry. A TTL of 0 never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Entry lifetimes.
const (
	// TTLArtifact is long: artifact keys hash everything that affects
	// the output.
	TTLArtifact = 30 * 24 * time.Hour

	// TTLEvents bounds how stale events from a remote store may be.
	TTLEvents = 5 * time.Minute
)

// Key types reported to observability hooks.
const (
	KeyTypeArtifact = "artifact"
	KeyTypeEvents   = "events"
)

// ArtifactKeyOpts are the render settings that change an artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	ConfigHash string  `json:"config_hash"`
	PNGScale   float64 `json:"png_scale,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey is the key of one output format rendered from events
	// with the given content hash.
	ArtifactKey(eventsHash string, opts ArtifactKeyOpts) string

	// EventsKey is the key of the events loaded from a source.
	EventsKey(sourceID string) string
}

// DefaultKeyer hashes key components into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(eventsHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", eventsHash, opts)
}

// EventsKey implements Keyer.
func (DefaultKeyer) EventsKey(sourceID string) string {
	return hashKey("events", sourceID)
}
