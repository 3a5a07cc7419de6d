package config

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a YAML-friendly wrapper around time.Duration that accepts
// human readable strings such as "150ms" in configuration files while still
// allowing numeric nanosecond values.
type Duration time.Duration

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// MarshalYAML encodes the duration using the canonical string representation.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML decodes a duration from either a string (e.g. "250ms") or a
// numeric value representing nanoseconds.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err == nil {
		if s == "" {
			*d = 0
			return nil
		}
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("duration: parse %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := node.Decode(&n); err != nil {
		return fmt.Errorf("duration: invalid value %q", node.Value)
	}
	*d = Duration(time.Duration(n))
	return nil
}

// Config captures the tunable parameters needed to bootstrap a terrain
// streaming server. Immutable after Load.
type Config struct {
	Listen string `yaml:"listen"`
	Seed   string `yaml:"seed"`

	// Chunk scheduling radii, in chunks (Chebyshev). RemoveRadius must be
	// >= ActiveRadius.
	ActiveRadius int `yaml:"active_radius"`
	RemoveRadius int `yaml:"remove_radius"`

	// MaxInflight bounds concurrent outstanding mesh requests per viewer.
	MaxInflight int `yaml:"max_inflight"`

	// Mesh worker pool sizing, per viewer session.
	Workers   int `yaml:"workers"`
	QueueSize int `yaml:"queue_size"`

	// TickInterval is the scheduler cadence; ResponseBatch caps how many
	// worker responses one tick ingests.
	TickInterval  Duration `yaml:"tick_interval"`
	StatsInterval Duration `yaml:"stats_interval"`
	ResponseBatch int      `yaml:"response_batch"`

	// Compress enables zstd framing of mesh payload buffers on the wire.
	Compress bool `yaml:"compress"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Listen:        ":8080",
		Seed:          "demo",
		ActiveRadius:  6,
		RemoveRadius:  8,
		MaxInflight:   4,
		Workers:       max(runtime.NumCPU(), 1),
		QueueSize:     64,
		TickInterval:  Duration(33 * time.Millisecond),
		StatsInterval: Duration(2 * time.Second),
		ResponseBatch: 8,
		Compress:      true,
	}
}

// Load reads a YAML config file, fills defaults and validates. An empty path
// yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Normalize fills unset fields with defaults.
func (c *Config) Normalize() {
	def := Default()
	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.Workers <= 0 {
		c.Workers = def.Workers
	}
	if c.QueueSize <= 0 {
		c.QueueSize = def.QueueSize
	}
	if c.TickInterval <= 0 {
		c.TickInterval = def.TickInterval
	}
	if c.StatsInterval <= 0 {
		c.StatsInterval = def.StatsInterval
	}
	if c.ResponseBatch <= 0 {
		c.ResponseBatch = def.ResponseBatch
	}
}

// Validate rejects configurations the scheduler cannot run with. These are
// fatal at startup.
func (c Config) Validate() error {
	if c.ActiveRadius < 0 {
		return fmt.Errorf("config: active_radius must be non-negative, got %d", c.ActiveRadius)
	}
	if c.RemoveRadius < c.ActiveRadius {
		return fmt.Errorf("config: remove_radius %d must be >= active_radius %d", c.RemoveRadius, c.ActiveRadius)
	}
	if c.MaxInflight < 1 {
		return fmt.Errorf("config: max_inflight must be positive, got %d", c.MaxInflight)
	}
	if c.Seed == "" {
		return fmt.Errorf("config: seed must not be empty")
	}
	return nil
}
