// Package library keeps parsed packs so they can be listed, fetched and
// played again without re-parsing the source.
package library

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dgallion1/papervox/internal/pack"
)

// ErrNotFound is returned when no pack has the requested id.
var ErrNotFound = errors.New("pack not found")

// Entry is one row of the library listing.
type Entry struct {
	pack.Summary
	AddedAt time.Time `json:"added_at"`
}

// Store holds packs keyed by pack ID.
type Store interface {
	// Add stores p. It reports false, without error, when a pack with the
	// same ID is already present; the stored pack is left unchanged.
	Add(ctx context.Context, p *pack.Pack) (bool, error)
	Get(ctx context.Context, id string) (*pack.Pack, error)
	// List returns entries newest first.
	List(ctx context.Context) ([]Entry, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// Open returns a SQLite-backed store for dsn, or an in-memory store when
// dsn is empty.
func Open(ctx context.Context, dsn string, log *slog.Logger) (Store, error) {
	if dsn == "" {
		return NewMemoryStore(), nil
	}
	return OpenSQLite(ctx, dsn, log)
}
