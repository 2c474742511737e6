package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/geospawn/internal/spawn"
)

// DB wraps a pgx connection pool for the spawn store.
type DB struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL and returns a DB handle.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{pool: pool}, nil
}

// Close closes the database connection pool.
func (d *DB) Close() {
	d.pool.Close()
}

// Pool returns the underlying pgx pool.
func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}

// Store bundles the repositories into the store the generator consumes.
type Store struct {
	*PlayerRepository
	*SpawnRepository
	*BiomeRepository
}

// NewStore creates all repositories over pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		PlayerRepository: NewPlayerRepository(pool),
		SpawnRepository:  NewSpawnRepository(pool),
		BiomeRepository:  NewBiomeRepository(pool),
	}
}

// Store returns a store backed by this connection pool.
func (d *DB) Store() *Store {
	return NewStore(d.pool)
}

var _ spawn.Store = (*Store)(nil)
