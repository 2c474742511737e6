package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/geospawn/internal/catalog"
	"github.com/udisondev/geospawn/internal/config"
	"github.com/udisondev/geospawn/internal/db"
	"github.com/udisondev/geospawn/internal/db/sqlitestore"
	"github.com/udisondev/geospawn/internal/health"
	"github.com/udisondev/geospawn/internal/journal"
	"github.com/udisondev/geospawn/internal/spawn"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadSpawner(config.PathFromEnv())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	slog.Info("geospawn spawner starting",
		"log_level", cfg.LogLevel,
		"db_driver", cfg.Database.Driver,
		"http", cfg.HTTP.Addr(),
		"interval", cfg.Generation.CycleInterval)

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	slog.Info("catalog loaded", "biomes", len(cat.Biomes()), "default_biome", cat.DefaultBiome())

	store, closeStore, err := openStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer closeStore()

	ln, err := net.Listen("tcp", cfg.HTTP.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.HTTP.Addr(), err)
	}

	return serve(ctx, cfg, cat, store, ln)
}

// serve runs the spawn driver and the health server until ctx is canceled.
func serve(ctx context.Context, cfg config.Spawner, cat *catalog.Catalog, store spawn.Store, ln net.Listener) error {
	defer ln.Close()

	rng, err := spawn.NewRand()
	if err != nil {
		return fmt.Errorf("seeding generator: %w", err)
	}
	gen, err := spawn.NewGenerator(cfg.Generation, cat, store, rng)
	if err != nil {
		return fmt.Errorf("creating generator: %w", err)
	}

	status := health.NewStatus(health.WithZone(cfg.DisplayZone()))
	opts := []spawn.DriverOption{spawn.WithObserver(status.ObserveCycle)}

	if cfg.Journal.Dir != "" {
		j := journal.NewCycleJournal(cfg.Journal.Dir)
		defer func() {
			if err := j.Close(); err != nil {
				slog.Error("closing cycle journal", "error", err)
			}
		}()
		opts = append(opts, spawn.WithObserver(j.ObserveCycle))
		slog.Info("cycle journal enabled", "dir", cfg.Journal.Dir)
	}

	driver := spawn.NewDriver(gen, cfg.Generation.CycleInterval, opts...)

	srv := &http.Server{
		Handler:           status.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := driver.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("spawn driver: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		slog.Info("starting health server", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("health server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("spawner stopped", "cycles", driver.Cycles())
	return nil
}

// openStore connects the configured backend and applies its schema.
func openStore(ctx context.Context, cfg config.DatabaseConfig) (spawn.Store, func(), error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		st, err := sqlitestore.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		slog.Info("sqlite store opened", "path", cfg.SQLitePath)
		return st, func() { _ = st.Close() }, nil

	default:
		database, err := db.New(ctx, cfg.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		slog.Info("database connected")

		if err := db.RunMigrations(ctx, cfg.DSN()); err != nil {
			database.Close()
			return nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied")

		return database.Store(), database.Close, nil
	}
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
