// Package cache stores resolved schematics and rendered artifacts keyed by
// the content that produced them.
//
// All backends implement [Cache]. [NullCache] disables caching,
// [FileCache] serves the CLI, and [RedisCache] and [MongoCache] back the
// HTTP server when several instances share results. Keys come from a
// [Keyer], so the same input, configuration and output format always map
// to the same entry.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	// TTLOutput is the lifetime of a resolved schematic.
	TTLOutput = 7 * 24 * time.Hour
	// TTLArtifact is the lifetime of a rendered artifact.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with optional expiry.
//
// Get reports a miss with hit == false and a nil error; errors are reserved
// for backend failures. A zero ttl in Set means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	// Clear removes every entry and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// OutputKeyOpts lists the configuration that affects a resolved schematic.
type OutputKeyOpts struct {
	MaxRounds     int                `json:"max_rounds"`
	Optimize      bool               `json:"optimize"`
	Weights       [4]float64         `json:"weights"` // overlap, crossing, bend, slack
	LengthWeight  float64            `json:"length_weight"`
	BendWeight    float64            `json:"bend_weight"`
	Direction     float64            `json:"direction_weight"`
	Clearance     float64            `json:"clearance"`
	Resolution    float64            `json:"resolution"`
	Frame         float64            `json:"frame"`
	WrapColumns   float64            `json:"wrap_columns"`
	WrapRows      float64            `json:"wrap_rows"`
	WrapByID      map[string]float64 `json:"wrap_by_id,omitempty"`
	DefaultMargin float64            `json:"default_margin"`
	DefaultPad    float64            `json:"default_padding"`
	DefaultGap    float64            `json:"default_gap"`
}

// ArtifactKeyOpts lists the options that affect a rendered artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Labels bool    `json:"labels"`
	Grid   float64 `json:"grid"`
	Scale  float64 `json:"scale"`
}

// Keyer derives cache keys.
type Keyer interface {
	// OutputKey is the key of the resolved schematic for an input tree with
	// the given content hash.
	OutputKey(inputHash string, opts OutputKeyOpts) string
	// ArtifactKey is the key of one rendering of a resolved schematic.
	ArtifactKey(outputHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the key inputs into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// OutputKey implements [Keyer].
func (DefaultKeyer) OutputKey(inputHash string, opts OutputKeyOpts) string {
	return hashKey("output", inputHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(outputHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", outputHash, opts)
}
