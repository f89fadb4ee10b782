package storage

import (
	"log/slog"

	"github.com/meltforce/caltracker/internal/config"
)

// FromConfig builds an adapter whose primary backend is the configured one and
// whose fallback is the file store in cfg.Dir. The file backend has no primary.
func FromConfig(cfg config.StorageConfig, log *slog.Logger, opts ...Option) *Adapter {
	var primary Opener
	switch cfg.Backend {
	case config.BackendSQLite:
		primary = SQLiteOpener(cfg.Path)
	case config.BackendPostgres:
		primary = PostgresOpener(cfg.Postgres.DSN())
	}
	return NewAdapter(primary, FileOpener(cfg.Dir), log, opts...)
}
