package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dgallion1/papervox/internal/pack"
)

const schema = `
CREATE TABLE IF NOT EXISTS packs (
	id       TEXT PRIMARY KEY,
	added_at INTEGER NOT NULL,
	body     BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS packs_added_at ON packs (added_at);
`

// SQLiteStore persists packs as JSON documents in a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	log *slog.Logger
	now func() time.Time
}

// OpenSQLite opens (creating if needed) the database at dsn.
func OpenSQLite(ctx context.Context, dsn string, log *slog.Logger) (*SQLiteStore, error) {
	if log == nil {
		log = slog.Default()
	}
	log.Info("opening library", "dsn", dsn)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open library: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping library: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db, log: log.With("component", "library"), now: time.Now}, nil
}

func (s *SQLiteStore) Add(ctx context.Context, p *pack.Pack) (bool, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return false, fmt.Errorf("encode pack: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO packs (id, added_at, body) VALUES (?, ?, ?)`,
		p.ID, s.now().UTC().UnixNano(), body)
	if err != nil {
		return false, fmt.Errorf("insert pack: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert pack: %w", err)
	}
	if n == 0 {
		s.log.Debug("pack already in library", "pack_id", p.ID)
	}
	return n > 0, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*pack.Pack, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM packs WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get pack: %w", err)
	}
	var p pack.Pack
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode pack %s: %w", id, err)
	}
	return &p, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT added_at, body FROM packs ORDER BY added_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list packs: %w", err)
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var (
			added int64
			body  []byte
		)
		if err := rows.Scan(&added, &body); err != nil {
			return nil, fmt.Errorf("scan pack: %w", err)
		}
		var p pack.Pack
		if err := json.Unmarshal(body, &p); err != nil {
			s.log.Warn("skipping unreadable pack", "error", err)
			continue
		}
		out = append(out, Entry{Summary: p.Summarize(), AddedAt: time.Unix(0, added).UTC()})
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM packs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete pack: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
