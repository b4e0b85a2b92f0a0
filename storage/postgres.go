package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"go-link-shortener/types"
)

// Constraint names from the migrations, used to tell the two unique
// violations apart.
const (
	constraintShortCode = "urls_short_code_key"
	constraintLongURL   = "urls_long_url_key"
)

const pgUniqueViolation = "23505"

// PostgresStorage implements the Storage interface on top of PostgreSQL.
type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresStorage connects to PostgreSQL, applies the pending migrations
// from migrationsDir and returns a ready store.
func NewPostgresStorage(dsn, migrationsDir string, logger *zap.Logger) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.Up(db, migrationsDir); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger.Info("Connected to PostgreSQL and applied migrations")
	return &PostgresStorage{db: db, logger: logger}, nil
}

// Create inserts a new record, relying on the table's unique constraints to
// catch duplicate codes and URLs under concurrency.
func (s *PostgresStorage) Create(ctx context.Context, record types.URLRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO urls (short_code, long_url, created_at) VALUES ($1, $2, $3)`,
		record.Code, record.LongURL, record.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			switch pqErr.Constraint {
			case constraintShortCode:
				return ErrDuplicateCode
			case constraintLongURL:
				return ErrDuplicateURL
			}
		}
		return err
	}
	return nil
}

// GetByCode retrieves the record stored under a short code.
func (s *PostgresStorage) GetByCode(ctx context.Context, code string) (types.URLRecord, error) {
	var record types.URLRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT short_code, long_url, created_at, hit_count FROM urls WHERE short_code = $1`,
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
func (s *PostgresStorage) GetByLongURL(ctx context.Context, longURL string) (types.URLRecord, error) {
	var record types.URLRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT short_code, long_url, created_at, hit_count FROM urls WHERE long_url = $1`,
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
func (s *PostgresStorage) IncrementHits(ctx context.Context, code string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE urls SET hit_count = hit_count + 1 WHERE short_code = $1`, code)
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

// LastCode returns the short code of the most recent insert. Recency follows
// the serial id column, not code ordering.
func (s *PostgresStorage) LastCode(ctx context.Context) (string, error) {
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

// Close closes the underlying connection pool.
func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
