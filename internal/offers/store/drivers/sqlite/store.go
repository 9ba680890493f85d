// Package sqlite implements the offer store on an embedded SQLite database.
// Each write is its own atomic operation; concurrent writers are serialized
// by the database, and the unique index on token_hash rejects duplicate
// fingerprints race-free.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/raumfrei/offerd/internal/offers/store"

	_ "modernc.org/sqlite"
)

type Store struct {
	db  *sql.DB
	dsn string
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:  db,
		dsn: dsn,
	}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Offers() store.Offers { return &offersRepo{db: s.db} }
func (s *Store) Usage() store.Usage   { return &usageRepo{db: s.db} }

// withTx executes fn within a transaction, automatically handling
// commit/rollback. Transactions stay internal to this driver: the store
// contract promises per-operation atomicity only, which the flat-file driver
// could not honor through an exposed Tx interface.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	// Ensure rollback is called if we panic or return early with error
	defer func() {
		_ = tx.Rollback() // safe to call even after commit
	}()

	if err := fn(tx); err != nil {
		return err // rollback happens in defer
	}

	return tx.Commit()
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure. modernc.org/sqlite surfaces constraint violations as plain errors
// carrying the canonical SQLite message.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
