// Package config defines the configuration surface of boxarrow: optimizer
// bounds and weights, routing costs, automatic wrap thresholds, box-model
// defaults, the cache backend and the HTTP server.
//
// Configuration is layered. [Default] supplies every value, a TOML or YAML
// file overrides what it mentions, BOXARROW_* environment variables
// override the file, and command-line flags override everything. The
// result is checked by [Config.Validate].
package config

import (
	"fmt"
	"runtime"
	"time"
)

// Config is the complete configuration.
type Config struct {
	Optimizer Optimizer `toml:"optimizer" yaml:"optimizer" json:"optimizer"`
	Routing   Routing   `toml:"routing" yaml:"routing" json:"routing"`
	Wrap      Wrap      `toml:"wrap" yaml:"wrap" json:"wrap"`
	Defaults  Defaults  `toml:"defaults" yaml:"defaults" json:"defaults"`
	Cache     Cache     `toml:"cache" yaml:"cache" json:"cache"`
	Server    Server    `toml:"server" yaml:"server" json:"server"`
}

// Optimizer bounds the place-and-route search.
type Optimizer struct {
	Enabled   bool    `toml:"enabled" yaml:"enabled" json:"enabled"`
	MaxRounds int     `toml:"max_rounds" yaml:"max_rounds" json:"max_rounds" validate:"gte=0,lte=1000"`
	Workers   int     `toml:"workers" yaml:"workers" json:"workers" validate:"gte=0"`
	Weights   Weights `toml:"weights" yaml:"weights" json:"weights"`
}

// Weights scales the defect terms of the optimizer's score.
type Weights struct {
	Overlap  float64 `toml:"overlap" yaml:"overlap" json:"overlap" validate:"gte=0"`
	Crossing float64 `toml:"crossing" yaml:"crossing" json:"crossing" validate:"gte=0"`
	Bend     float64 `toml:"bend" yaml:"bend" json:"bend" validate:"gte=0"`
	Slack    float64 `toml:"slack" yaml:"slack" json:"slack" validate:"gte=0"`
}

// Routing sets the cost model and grid of the orthogonal router.
type Routing struct {
	LengthWeight    float64 `toml:"length_weight" yaml:"length_weight" json:"length_weight" validate:"gt=0"`
	BendWeight      float64 `toml:"bend_weight" yaml:"bend_weight" json:"bend_weight" validate:"gte=0"`
	DirectionWeight float64 `toml:"direction_weight" yaml:"direction_weight" json:"direction_weight" validate:"gte=0"`
	Clearance       float64 `toml:"clearance" yaml:"clearance" json:"clearance" validate:"gte=0"`
	Resolution      float64 `toml:"resolution" yaml:"resolution" json:"resolution" validate:"gte=0"`
	Frame           float64 `toml:"frame" yaml:"frame" json:"frame" validate:"gt=0"`
	Workers         int     `toml:"workers" yaml:"workers" json:"workers" validate:"gte=0"`
}

// Wrap supplies automatic wrap thresholds for columns and rows that do not
// declare one. Zero disables automatic wrapping.
type Wrap struct {
	Columns float64            `toml:"columns" yaml:"columns" json:"columns" validate:"gte=0"`
	Rows    float64            `toml:"rows" yaml:"rows" json:"rows" validate:"gte=0"`
	Layouts map[string]float64 `toml:"layouts" yaml:"layouts" json:"layouts,omitempty" validate:"dive,keys,required,endkeys,gt=0"`
}

// Defaults are box-model values applied where the input leaves them unset.
type Defaults struct {
	Margin  float64 `toml:"margin" yaml:"margin" json:"margin" validate:"gte=0"`
	Padding float64 `toml:"padding" yaml:"padding" json:"padding" validate:"gte=0"`
	Gap     float64 `toml:"gap" yaml:"gap" json:"gap" validate:"gte=0"`
}

// Cache backends.
const (
	BackendFile  = "file"
	BackendNull  = "null"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Cache selects and configures the cache backend.
type Cache struct {
	Backend   string   `toml:"backend" yaml:"backend" json:"backend" validate:"oneof=file null redis mongo"`
	Dir       string   `toml:"dir" yaml:"dir" json:"dir,omitempty"`
	RedisAddr string   `toml:"redis_addr" yaml:"redis_addr" json:"redis_addr,omitempty" validate:"required_if=Backend redis"`
	MongoURI  string   `toml:"mongo_uri" yaml:"mongo_uri" json:"mongo_uri,omitempty" validate:"required_if=Backend mongo"`
	TTL       Duration `toml:"ttl" yaml:"ttl" json:"ttl"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string   `toml:"addr" yaml:"addr" json:"addr" validate:"required"`
	MaxBodyBytes int64    `toml:"max_body_bytes" yaml:"max_body_bytes" json:"max_body_bytes" validate:"gt=0"`
	Timeout      Duration `toml:"timeout" yaml:"timeout" json:"timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Optimizer: Optimizer{
			Enabled:   true,
			MaxRounds: 8,
			Workers:   runtime.GOMAXPROCS(0),
			Weights:   Weights{Overlap: 1, Crossing: 50, Bend: 10, Slack: 0.1},
		},
		Routing: Routing{
			LengthWeight:    1,
			BendWeight:      20,
			DirectionWeight: 30,
			Frame:           10,
			Workers:         runtime.GOMAXPROCS(0),
		},
		Cache: Cache{
			Backend: BackendFile,
			TTL:     Duration(7 * 24 * time.Hour),
		},
		Server: Server{
			Addr:         ":8080",
			MaxBodyBytes: 4 << 20,
			Timeout:      Duration(30 * time.Second),
		},
	}
}

// Duration is a time.Duration written as a string such as "90s" or "168h".
type Duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }
