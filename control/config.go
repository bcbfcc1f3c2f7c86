// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Runtime configuration for the executor, the reactor and the example
// entry points, loaded from YAML.

package control

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	yaml "go.yaml.in/yaml/v3"
)

const (
	// DefaultQueueCapacity bounds the executor ready queue.
	DefaultQueueCapacity = 10_000
	// DefaultEventsCapacity is the number of readiness events fetched per wait.
	DefaultEventsCapacity = 1024
	// DefaultBind is the address used by the UDP example.
	DefaultBind = "127.0.0.1:8000"
)

// ErrInvalidConfig is returned by Validate and LoadConfig.
var ErrInvalidConfig = errors.New("invalid config")

// LogConfig selects log level and output format.
type LogConfig struct {
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

// Config holds every tunable of the runtime.
type Config struct {
	QueueCapacity  int `yaml:"queue_capacity"`
	EventsCapacity int `yaml:"events_capacity"`

	// ReactorCPU pins the reactor thread to a CPU; negative disables pinning.
	ReactorCPU int `yaml:"reactor_cpu"`

	Bind string    `yaml:"bind"`
	Log  LogConfig `yaml:"log"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		QueueCapacity:  DefaultQueueCapacity,
		EventsCapacity: DefaultEventsCapacity,
		ReactorCPU:     -1,
		Bind:           DefaultBind,
		Log: LogConfig{
			Level:   "info",
			Console: true,
		},
	}
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.QueueCapacity <= 0 {
		return fmt.Errorf("%w: queue_capacity must be positive, got %d", ErrInvalidConfig, c.QueueCapacity)
	}
	if c.EventsCapacity <= 0 {
		return fmt.Errorf("%w: events_capacity must be positive, got %d", ErrInvalidConfig, c.EventsCapacity)
	}
	if c.Bind == "" {
		return fmt.Errorf("%w: bind must not be empty", ErrInvalidConfig)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// LoadConfig reads a YAML file on top of DefaultConfig.
// Unknown keys and trailing documents are rejected.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML bytes on top of DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("yaml decode: %w", err)
	}
	// reject a second document
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err == nil {
			return Config{}, fmt.Errorf("%w: trailing data", ErrInvalidConfig)
		}
		return Config{}, fmt.Errorf("yaml decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
