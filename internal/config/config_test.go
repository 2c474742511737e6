package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spawner.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadSpawner_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadSpawner(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	def := DefaultSpawner()
	assert.Equal(t, def.HTTP, cfg.HTTP)
	assert.Equal(t, def.Generation, cfg.Generation)
	assert.Equal(t, 8, cfg.DisplayUTCOffset)
}

func TestLoadSpawner_FileOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
log_level: debug
http:
  port: 9090
database:
  driver: sqlite
  sqlite_path: /tmp/spawns.db
generation:
  max_spawns: 20
  min_lifespan: 2m
  cycle_interval: 10s
  anchor_workers: 4
journal:
  dir: /var/lib/geospawn
`)

	cfg, err := LoadSpawner(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.BindAddress)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/spawns.db", cfg.Database.SQLitePath)
	assert.Equal(t, 20, cfg.Generation.MaxSpawns)
	assert.Equal(t, 2*time.Minute, cfg.Generation.MinLifespan)
	assert.Equal(t, 30*time.Minute, cfg.Generation.MaxLifespan)
	assert.Equal(t, 10*time.Second, cfg.Generation.CycleInterval)
	assert.Equal(t, 4, cfg.Generation.AnchorWorkers)
	assert.Equal(t, "/var/lib/geospawn", cfg.Journal.Dir)
	assert.NoError(t, cfg.Validate())
}

func TestLoadSpawner_EnvOverlay(t *testing.T) {
	path := writeFile(t, "http:\n  port: 9090\n")
	t.Setenv("PORT", "8123")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/spawns")
	t.Setenv("GEOSPAWN_LOG_LEVEL", "warn")

	cfg, err := LoadSpawner(path)
	require.NoError(t, err)

	assert.Equal(t, 8123, cfg.HTTP.Port)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "postgres://u:p@db:5432/spawns", cfg.Database.DSN())
	assert.NoError(t, cfg.Validate())
}

func TestLoadSpawner_BadYAML(t *testing.T) {
	_, err := LoadSpawner(writeFile(t, "http: [not a map"))
	assert.Error(t, err)
}

func TestLoadSpawner_BadEnv(t *testing.T) {
	t.Setenv("PORT", "eighty")
	_, err := LoadSpawner(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestSpawner_Validate_MissingCredentials(t *testing.T) {
	cfg := DefaultSpawner()
	assert.ErrorIs(t, cfg.Validate(), ErrMissingCredentials)

	cfg.Database.Password = "secret"
	assert.NoError(t, cfg.Validate())

	cfg.Database.Driver = DriverSQLite
	cfg.Database.SQLitePath = ""
	assert.ErrorIs(t, cfg.Validate(), ErrMissingCredentials)
}

func TestSpawner_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Spawner)
	}{
		{"unknown driver", func(s *Spawner) { s.Database.Driver = "mysql" }},
		{"http port", func(s *Spawner) { s.HTTP.Port = 0 }},
		{"db port", func(s *Spawner) { s.Database.Port = 70000 }},
		{"display offset", func(s *Spawner) { s.DisplayUTCOffset = 20 }},
		{"generation", func(s *Spawner) { s.Generation.MaxSpawns = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSpawner()
			cfg.Database.Password = "secret"
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.NotErrorIs(t, err, ErrMissingCredentials)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "db", Port: 5433, User: "u", Password: "p", DBName: "spawns", SSLMode: "require",
	}
	assert.Equal(t, "postgres://u:p@db:5433/spawns?sslmode=require", d.DSN())
}

func TestSpawner_DisplayZone(t *testing.T) {
	cfg := DefaultSpawner()
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).In(cfg.DisplayZone())
	assert.Equal(t, 8, at.Hour())
	name, _ := at.Zone()
	assert.Equal(t, "UTC+8", name)
}

func TestPathFromEnv(t *testing.T) {
	t.Setenv("GEOSPAWN_CONFIG", "")
	assert.Equal(t, DefaultPath, PathFromEnv())

	t.Setenv("GEOSPAWN_CONFIG", "/etc/geospawn.yaml")
	assert.Equal(t, "/etc/geospawn.yaml", PathFromEnv())
}
