package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Simulation holds all configuration for the simulation driver.
type Simulation struct {
	LogLevel string `yaml:"log_level"`

	// TickSeconds is the fixed simulation step. Every duration in the
	// engine counts down in these steps; there are no wall-clock
	// timers.
	TickSeconds float64 `yaml:"tick_seconds"`

	// CatalogPath points at the ability catalog YAML.
	CatalogPath string `yaml:"catalog_path"`

	Journal JournalConfig `yaml:"journal"`
}

// JournalConfig controls combat journal persistence.
type JournalConfig struct {
	Enabled bool `yaml:"enabled"`

	// FlushIntervalSeconds is how often buffered events are written
	// to the store.
	FlushIntervalSeconds float64 `yaml:"flush_interval_seconds"`

	Database DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// LoadSimulation reads the simulation config from a YAML file and
// applies defaults for omitted fields.
func LoadSimulation(path string) (*Simulation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := &Simulation{
		LogLevel:    "info",
		TickSeconds: 0.05,
		CatalogPath: "config/abilities.yaml",
		Journal: JournalConfig{
			FlushIntervalSeconds: 5,
		},
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.TickSeconds <= 0 {
		return nil, fmt.Errorf("config %s: tick_seconds must be positive", path)
	}
	if cfg.Journal.Enabled && cfg.Journal.FlushIntervalSeconds <= 0 {
		return nil, fmt.Errorf("config %s: flush_interval_seconds must be positive", path)
	}
	return cfg, nil
}
