package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config carries the settings resolved once by the CLI and passed into
// the builder and diff engine; nothing below the CLI reads globals.
// Flags override config file values.
type Config struct {
	DB              string `yaml:"db"`               // project catalog path
	Baseline        string `yaml:"baseline"`         // baseline catalog path
	Corpus          string `yaml:"corpus"`           // disassembled framework corpus root
	ServiceContexts string `yaml:"service_contexts"` // security-context map file
}

// LoadConfig reads a YAML config file. An empty path yields a zero
// Config without error.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Merge overlays non-empty flag values onto cfg.
func (c Config) Merge(db, baseline, corpus, contexts string) Config {
	if db != "" {
		c.DB = db
	}
	if baseline != "" {
		c.Baseline = baseline
	}
	if corpus != "" {
		c.Corpus = corpus
	}
	if contexts != "" {
		c.ServiceContexts = contexts
	}
	return c
}

// ResolveBaseline returns the baseline catalog path, falling back to the
// convention-derived default: base.db in the project catalog's directory.
func (c Config) ResolveBaseline() string {
	if c.Baseline != "" {
		return c.Baseline
	}
	return filepath.Join(filepath.Dir(c.DB), "base.db")
}
