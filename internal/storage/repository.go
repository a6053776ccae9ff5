// Package storage contains the storage-agnostic contracts for loading
// cleaned datasets into a database, plus a factory keyed by backend kind.
// Concrete backends (Postgres, SQLite) live in subpackages and register
// themselves at init time; importing storage/all enables every built-in
// backend.
package storage

import (
	"context"
	"fmt"
	"sync"
)

// Config identifies the destination for one dataset's load.
type Config struct {
	// Kind selects the backend implementation, e.g. "postgres", "sqlite".
	Kind string

	// DSN is the backend connection string.
	DSN string

	// Table is the destination table name.
	Table string

	// Columns enumerates the destination columns in insert order. They
	// match the cleaned CSV header exactly.
	Columns []string
}

// Repository is a destination table opened for bulk loading.
type Repository interface {
	// CopyFrom bulk-inserts rows, aligned to the configured column order,
	// and returns the number of rows inserted.
	CopyFrom(ctx context.Context, rows [][]any) (int64, error)

	// Count returns the current row count of the destination table. It
	// backs post-load verification.
	Count(ctx context.Context) (int64, error)

	// Close releases the underlying connection or pool.
	Close() error
}

// Factory constructs a Repository for one backend kind.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) a Factory for the given storage kind.
// It is typically called from backend packages' init() functions.
func Register(kind string, fn Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = fn
}

// New opens a Repository for cfg.Kind, or errors when no backend with that
// kind has been registered.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	fn, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no storage backend registered for kind %q", cfg.Kind)
	}
	return fn(ctx, cfg)
}
