// Package config loads and saves the ledgerkit.yaml configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = "ledgerkit.yaml"

// Config represents the top-level ledgerkit.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business"`
	Storage  StorageConfig  `yaml:"storage"`
	Tax      TaxConfig      `yaml:"tax"`
}

// BusinessConfig identifies the business entity.
type BusinessConfig struct {
	Name       string `yaml:"name"`
	EntityType string `yaml:"entity_type"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	// Backend is one of "memory", "sqlite", "postgres".
	Backend string `yaml:"backend"`
	// Path is the database file for the sqlite backend.
	Path string `yaml:"path,omitempty"`
	// DSN is the connection string for the postgres backend. The
	// LEDGERKIT_DSN environment variable overrides it.
	DSN string `yaml:"dsn,omitempty"`
}

// TaxConfig holds GST defaults.
type TaxConfig struct {
	// InterState selects IGST rates by default instead of CGST+SGST.
	InterState bool `yaml:"inter_state"`
}

// Load reads a ledgerkit.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new ledger.
func Default(businessName string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name:       businessName,
			EntityType: "small_business",
		},
		Storage: StorageConfig{
			Backend: "sqlite",
			Path:    "ledger.db",
		},
		Tax: TaxConfig{
			InterState: false,
		},
	}
}
