package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ErrMissingCredentials is returned when no usable database credentials are configured.
var ErrMissingCredentials = errors.New("missing database credentials")

// DatabaseConfig holds store connection parameters.
type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"GEOSPAWN_DB_DRIVER"`

	// URL, если задан, имеет приоритет над остальными полями.
	URL      string `yaml:"url" env:"DATABASE_URL"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password" env:"SERVICE_ROLE_KEY"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`

	SQLitePath string `yaml:"sqlite_path" env:"GEOSPAWN_SQLITE_PATH"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Validate reports ErrMissingCredentials when the selected driver cannot connect.
func (d DatabaseConfig) Validate() error {
	switch d.Driver {
	case DriverPostgres:
		if d.URL != "" {
			return nil
		}
		if d.Host == "" || d.User == "" || d.Password == "" || d.DBName == "" {
			return fmt.Errorf("%w: set DATABASE_URL or database.host/user/password/dbname", ErrMissingCredentials)
		}
		if d.Port <= 0 || d.Port > 65535 {
			return fmt.Errorf("database port %d out of range", d.Port)
		}
	case DriverSQLite:
		if d.SQLitePath == "" {
			return fmt.Errorf("%w: database.sqlite_path is empty", ErrMissingCredentials)
		}
	default:
		return fmt.Errorf("unknown database driver %q", d.Driver)
	}
	return nil
}

// loadYAML decodes path into cfg. A missing file leaves cfg untouched.
func loadYAML(path string, cfg any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}
