// Package sqlstore keeps ledger collections in a single SQL table, one row per key.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
)

// Dialect selects placeholder syntax.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS ledger_collections (
    key         TEXT PRIMARY KEY,
    data        TEXT NOT NULL,
    updated_at  TEXT NOT NULL
)`

type Store struct {
	db      *sql.DB
	dialect Dialect
}

func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// Migrate creates the collections table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	query := s.rebind(`SELECT data FROM ledger_collections WHERE key = ?`)

	var data string
	if err := s.db.QueryRowContext(ctx, query, key).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrKeyNotFound
		}

		return nil, fmt.Errorf("getting %s: %w", key, err)
	}

	return []byte(data), nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	query := s.rebind(`
		INSERT INTO ledger_collections (key, data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`)

	now := time.Now().UTC().Format(time.RFC3339)

	if _, err := s.db.ExecContext(ctx, query, key, string(value), now); err != nil {
		return fmt.Errorf("putting %s: %w", key, err)
	}

	return nil
}

// rebind turns ? placeholders into $n for Postgres.
func (s *Store) rebind(query string) string {
	if s.dialect != Postgres {
		return query
	}

	var b strings.Builder

	n := 0

	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))

			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}
