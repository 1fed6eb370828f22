// Package store selects a register.Persistence backend from configuration.
//
// Implementations live in the subpackages:
//   - store/jsonfile: one JSON document
//   - store/sqlite:   SQLite database file (or ":memory:")
//   - store/postgres: PostgreSQL
//
// The in-memory backend is register/store.Memory.
package store

import (
	"context"
	"fmt"
	"io"

	"github.com/warp/cashdesk/config"
	"github.com/warp/cashdesk/register"
	memstore "github.com/warp/cashdesk/register/store"
	"github.com/warp/cashdesk/store/jsonfile"
	"github.com/warp/cashdesk/store/postgres"
	"github.com/warp/cashdesk/store/sqlite"
)

// Backend is an opened persistence backend. Close releases it.
type Backend struct {
	register.Persistence
	io.Closer
	Name string
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open opens the backend named by cfg.Backend with cfg.DSN.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return &Backend{Persistence: memstore.NewMemory(), Closer: nopCloser{}, Name: cfg.Backend}, nil

	case config.BackendJSON:
		return &Backend{Persistence: jsonfile.New(cfg.DSN), Closer: nopCloser{}, Name: cfg.Backend}, nil

	case config.BackendSQLite:
		s, err := sqlite.New(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return &Backend{Persistence: s, Closer: s, Name: cfg.Backend}, nil

	case config.BackendPostgres:
		s, err := postgres.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return &Backend{Persistence: s, Closer: s, Name: cfg.Backend}, nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}
