// Package config loads the engine's YAML configuration: backend
// selection policy, the polling bound, trace destination, and output
// formatting defaults. Everything has a working default; an absent file
// is not an error for callers that want one (see LoadOrDefault).
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Backend selection policies.
const (
	// BackendAuto probes at reset and uses hardware when present.
	BackendAuto = "auto"

	// BackendSoftware pins the software fallback, skipping the probe.
	BackendSoftware = "software"
)

var validBackends = []string{BackendAuto, BackendSoftware}

// Config is the engine configuration file.
type Config struct {
	// Backend is the selection policy: "auto" or "software".
	Backend string `yaml:"backend"`

	// MaxPollIterations bounds the busy-bit polling loop. Must cover
	// worst-case device latency; polling never blocks past it.
	MaxPollIterations int `yaml:"max_poll_iterations"`

	Trace  TraceConfig  `yaml:"trace"`
	Output OutputConfig `yaml:"output"`
}

// TraceConfig configures the opt-in instrumentation.
type TraceConfig struct {
	// Enabled turns on trace recording.
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite trace log location. Empty with Enabled set
	// means log-only instrumentation.
	Path string `yaml:"path,omitempty"`
}

// OutputConfig holds PullToString defaults for front ends.
type OutputConfig struct {
	Precision int    `yaml:"precision"`
	Width     int    `yaml:"width"`
	Mode      string `yaml:"mode"` // fixed | scientific | shortest
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Backend:           BackendAuto,
		MaxPollIterations: 256,
		Output: OutputConfig{
			Precision: 6,
			Width:     0,
			Mode:      "shortest",
		},
	}
}

// Load reads and validates a configuration file. Unknown fields are
// rejected so typos fail loudly instead of silently using defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads path when non-empty, otherwise returns Default.
func LoadOrDefault(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func (c Config) validate() error {
	ok := false
	for _, b := range validBackends {
		if c.Backend == b {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("invalid backend %q: must be one of %v", c.Backend, validBackends)
	}
	if c.MaxPollIterations <= 0 {
		return fmt.Errorf("max_poll_iterations must be positive, got %d", c.MaxPollIterations)
	}
	switch c.Output.Mode {
	case "fixed", "scientific", "shortest":
	default:
		return fmt.Errorf("invalid output mode %q", c.Output.Mode)
	}
	return nil
}
