// Package config loads the compiler's TOML-backed settings, the same
// way the teacher's emulator loads its own: a DefaultConfig() baseline,
// overridden by whatever a file at a caller-supplied path provides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the small set of knobs this compiler actually exercises
// — trimmed from the teacher's execution/trace/statistics sections,
// which have no referent in a text-in/text-out compiler.
type Config struct {
	Diagnostics struct {
		MaxPrinted  int  `toml:"max_printed"`
		ColorOutput bool `toml:"color_output"`
	} `toml:"diagnostics"`

	Codegen struct {
		LabelPrefix string `toml:"label_prefix"`
	} `toml:"codegen"`

	Inspector struct {
		Enabled bool `toml:"enabled"`
	} `toml:"inspector"`
}

// DefaultConfig returns a Config populated with this compiler's defaults.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Diagnostics.MaxPrinted = 50
	cfg.Diagnostics.ColorOutput = true
	cfg.Codegen.LabelPrefix = "R"
	cfg.Inspector.Enabled = false
	return cfg
}

// Load reads cfg from path, falling back to DefaultConfig() when path
// does not exist — path is never required, only consulted.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path as TOML, creating parent directories as needed.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- caller-supplied config path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
