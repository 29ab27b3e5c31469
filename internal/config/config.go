// Package config loads the editor configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"

	"github.com/pavanmanishd/pulsar/internal/logging"
	"github.com/pavanmanishd/pulsar/window"
)

// Config holds Pulsar configuration.
type Config struct {
	Log    logging.Config  `json:"log"`
	Arena  ArenaConfig     `json:"arena"`
	Window window.Settings `json:"window"`

	// Frame loop
	Frames          int `json:"frames"`            // 0 runs until the window closes
	Workers         int `json:"workers"`           // goroutines promoting weak handles per frame
	ObjectsPerFrame int `json:"objects_per_frame"` // shared objects allocated per frame

	// Prometheus endpoint, empty to disable
	MetricsAddr string `json:"metrics_addr"`
}

// ArenaConfig configures the per-frame region.
type ArenaConfig struct {
	CapacityBytes int  `json:"capacity_bytes"`
	Debug         bool `json:"debug"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Log: logging.DefaultConfig(),
		Arena: ArenaConfig{
			CapacityBytes: 1 << 20,
			Debug:         true,
		},
		Window:          window.DefaultSettings(),
		Frames:          60,
		Workers:         4,
		ObjectsPerFrame: 256,
	}
}

// Load loads configuration from a JSON file. Fields missing from the file
// keep their default values.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadFromReader(f)
}

// LoadFromReader loads configuration from an io.Reader.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := json.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a JSON file.
func (c *Config) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Arena.CapacityBytes <= 0 {
		errs = append(errs, errors.New("config: arena.capacity_bytes must be positive"))
	}
	if c.Frames < 0 {
		errs = append(errs, errors.New("config: frames must not be negative"))
	}
	if c.Workers <= 0 {
		errs = append(errs, errors.New("config: workers must be positive"))
	}
	if c.ObjectsPerFrame < 0 {
		errs = append(errs, errors.New("config: objects_per_frame must not be negative"))
	}
	return errors.Join(errs...)
}
