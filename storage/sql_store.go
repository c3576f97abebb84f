package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Dialect selects placeholder syntax for SQLStore queries.
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

// SQLStore keeps values in the kv_entries table created by
// database.RunMigrations.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

func (s *SQLStore) getQuery() string {
	if s.dialect == SQLite {
		return `SELECT value FROM kv_entries WHERE namespace = ? AND item_key = ?`
	}
	return `SELECT value FROM kv_entries WHERE namespace = $1 AND item_key = $2`
}

func (s *SQLStore) setQuery() string {
	if s.dialect == SQLite {
		return `
		INSERT INTO kv_entries (namespace, item_key, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (namespace, item_key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`
	}
	return `
		INSERT INTO kv_entries (namespace, item_key, value, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		ON CONFLICT (namespace, item_key) DO UPDATE SET value = EXCLUDED.value, updated_at = CURRENT_TIMESTAMP`
}

func (s *SQLStore) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	if err := checkNames(namespace, key); err != nil {
		return nil, false, err
	}
	var value []byte
	err := s.db.QueryRowContext(ctx, s.getQuery(), namespace, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("database error: %w", err)
	}
	return value, true, nil
}

func (s *SQLStore) Set(ctx context.Context, namespace, key string, value []byte) error {
	if err := checkNames(namespace, key); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, s.setQuery(), namespace, key, value); err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	return nil
}

// Close leaves the *sql.DB open; its owner closes it.
func (s *SQLStore) Close() error { return nil }
