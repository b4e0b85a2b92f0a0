package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"go-link-shortener/types"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS urls (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	short_code TEXT NOT NULL UNIQUE,
	long_url TEXT NOT NULL UNIQUE,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	hit_count INTEGER NOT NULL DEFAULT 0
);`

// SQLiteStorage implements the Storage interface on top of SQLite. It suits
// single-node deployments and tests; PostgreSQL remains the choice for
// anything shared.
type SQLiteStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStorage opens (or creates) the database at path and ensures the
// schema exists. Use ":memory:" for an ephemeral store.
func NewSQLiteStorage(path string, logger *zap.Logger) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == ":memory:" {
		// A pooled second connection would see a different empty database.
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	logger.Info("SQLite storage ready", zap.String("path", path))
	return &SQLiteStorage{db: db, logger: logger}, nil
}

// Create inserts a new record, relying on the table's unique constraints to
// catch duplicate codes and URLs under concurrency.
func (s *SQLiteStorage) Create(ctx context.Context, record types.URLRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO urls (short_code, long_url, created_at) VALUES (?, ?, ?)`,
		record.Code, record.LongURL, record.CreatedAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			if strings.Contains(err.Error(), "long_url") {
				return ErrDuplicateURL
			}
			return ErrDuplicateCode
		}
		return err
	}
	return nil
}

// GetByCode retrieves the record stored under a short code.
func (s *SQLiteStorage) GetByCode(ctx context.Context, code string) (types.URLRecord, error) {
	var record types.URLRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT short_code, long_url, created_at, hit_count FROM urls WHERE short_code = ?`,
		code).Scan(&record.Code, &record.LongURL, &record.CreatedAt, &record.HitCount)
	if errors.Is(err, sql.ErrNoRows) {
		return types.URLRecord{}, ErrNotFound
	}
	if err != nil {
		return types.URLRecord{}, err
	}
	return record, nil
}

// GetByLongURL retrieves the record that shortens the given long URL.
func (s *SQLiteStorage) GetByLongURL(ctx context.Context, longURL string) (types.URLRecord, error) {
	var record types.URLRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT short_code, long_url, created_at, hit_count FROM urls WHERE long_url = ?`,
		longURL).Scan(&record.Code, &record.LongURL, &record.CreatedAt, &record.HitCount)
	if errors.Is(err, sql.ErrNoRows) {
		return types.URLRecord{}, ErrNotFound
	}
	if err != nil {
		return types.URLRecord{}, err
	}
	return record, nil
}

// IncrementHits bumps the redirect counter of a short code.
func (s *SQLiteStorage) IncrementHits(ctx context.Context, code string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE urls SET hit_count = hit_count + 1 WHERE short_code = ?`, code)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// LastCode returns the short code of the most recent insert.
func (s *SQLiteStorage) LastCode(ctx context.Context) (string, error) {
	var code string
	err := s.db.QueryRowContext(ctx,
		`SELECT short_code FROM urls ORDER BY id DESC LIMIT 1`).Scan(&code)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return code, nil
}

// Close closes the underlying database handle.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
