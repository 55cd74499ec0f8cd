// Package cache stores extraction results and rendered artifacts.
//
// # Backends
//
//   - [FileCache]: one file per entry under a directory, for the CLI.
//   - [RedisCache]: a shared Redis instance, for servers.
//   - [NullCache]: stores nothing; used when caching is disabled.
//
// # Keys
//
// A [Keyer] derives keys from the inputs that determine an entry. Extraction
// results are keyed by extractor and text; artifacts by the diagram hash and
// the render options. [ScopedKeyer] prefixes every key, which lets several
// tenants share one backend.
//
// Values are opaque bytes. [Encode] and [Decode] serialise structured values
// with msgpack.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get returns the stored value and whether it was found and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Keyer derives cache keys.
type Keyer interface {
	// ExtractionKey keys the diagram extracted from text by source.
	ExtractionKey(source, text string) string
	// ArtifactKey keys one rendered output of a diagram.
	ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds the render options that change an artifact.
type ArtifactKeyOpts struct {
	VizType  string  `json:"viz_type"`
	Format   string  `json:"format"`
	Scale    float64 `json:"scale,omitempty"`
	MaxWidth int     `json:"max_width,omitempty"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ExtractionKey returns "extract:<sha256>" over source and text.
func (DefaultKeyer) ExtractionKey(source, text string) string {
	return hashKey("extract", source, text)
}

// ArtifactKey returns "artifact:<sha256>" over the hash and options.
func (DefaultKeyer) ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", diagramHash, opts)
}
