package config

import (
	"fmt"
	"os"
	"time"

	"github.com/udisondev/geospawn/internal/spawn"
)

// DefaultPath is where the spawner looks for its config file.
const DefaultPath = "config/spawner.yaml"

// PathFromEnv returns $GEOSPAWN_CONFIG or DefaultPath.
func PathFromEnv() string {
	if p := os.Getenv("GEOSPAWN_CONFIG"); p != "" {
		return p
	}
	return DefaultPath
}

// HTTPConfig configures the health endpoint.
type HTTPConfig struct {
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port" env:"PORT"`
}

// Addr returns host:port.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.BindAddress, h.Port)
}

// JournalConfig configures the cycle journal. Empty Dir disables it.
type JournalConfig struct {
	Dir string `yaml:"dir" env:"GEOSPAWN_JOURNAL_DIR"`
}

// Spawner holds all configuration for the spawner process.
type Spawner struct {
	LogLevel string `yaml:"log_level" env:"GEOSPAWN_LOG_LEVEL"`

	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`

	Generation  spawn.Config `yaml:"generation"`
	CatalogPath string       `yaml:"catalog_path"`

	Journal JournalConfig `yaml:"journal"`

	// Смещение зоны для страницы статуса, в часах.
	DisplayUTCOffset int `yaml:"display_utc_offset"`
}

// DefaultSpawner returns Spawner config with the game's production values.
func DefaultSpawner() Spawner {
	return Spawner{
		LogLevel: "info",
		HTTP: HTTPConfig{
			BindAddress: "0.0.0.0",
			Port:        8000,
		},
		Database: DatabaseConfig{
			Driver:     DriverPostgres,
			Host:       "127.0.0.1",
			Port:       5432,
			User:       "geospawn",
			DBName:     "geospawn",
			SSLMode:    "disable",
			SQLitePath: "geospawn.db",
		},
		Generation:       spawn.DefaultConfig(),
		CatalogPath:      "config/catalog.yaml",
		DisplayUTCOffset: 8,
	}
}

// LoadSpawner loads the YAML file at path over the defaults, then applies
// the environment overlay. If the file doesn't exist, defaults are used.
func LoadSpawner(path string) (Spawner, error) {
	cfg := DefaultSpawner()

	if err := loadYAML(path, &cfg); err != nil {
		return cfg, err
	}
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// DisplayZone returns the fixed zone used on the status page.
func (s Spawner) DisplayZone() *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", s.DisplayUTCOffset), s.DisplayUTCOffset*60*60)
}

// Validate checks the whole config. Missing credentials wrap ErrMissingCredentials.
func (s Spawner) Validate() error {
	if err := s.Database.Validate(); err != nil {
		return err
	}
	if s.HTTP.Port <= 0 || s.HTTP.Port > 65535 {
		return fmt.Errorf("http port %d out of range", s.HTTP.Port)
	}
	if s.DisplayUTCOffset < -12 || s.DisplayUTCOffset > 14 {
		return fmt.Errorf("display_utc_offset %d out of range", s.DisplayUTCOffset)
	}
	if err := s.Generation.Validate(); err != nil {
		return fmt.Errorf("generation: %w", err)
	}
	return nil
}
