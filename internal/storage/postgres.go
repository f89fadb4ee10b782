package storage

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Postgres stores documents in a kv table with a JSONB value column.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres applies pending migrations and connects a pool.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	if err := RunMigrations(dsn); err != nil {
		return nil, err
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// PostgresOpener adapts OpenPostgres to an Opener.
func PostgresOpener(dsn string) Opener {
	return func(ctx context.Context) (Backend, error) {
		return OpenPostgres(ctx, dsn)
	}
}

// RunMigrations applies all pending embedded migrations.
func RunMigrations(dsn string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

func (p *Postgres) Name() string { return "postgres" }

func (p *Postgres) Put(ctx context.Context, key string, value []byte, at time.Time) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, value, at,
	)
	return err
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, time.Time, error) {
	var (
		value []byte
		at    time.Time
	)
	err := p.pool.QueryRow(ctx,
		`SELECT value, updated_at FROM kv WHERE key = $1`, key,
	).Scan(&value, &at)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, time.Time{}, ErrNotFound
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	return value, at, nil
}

func (p *Postgres) Clear(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM kv`)
	return err
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
