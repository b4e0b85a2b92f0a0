// Package storage provides interfaces and common errors for URL record storage.
package storage

import (
	"context"
	"errors"

	"go-link-shortener/types"
)

// Common errors returned by storage operations.
var (
	ErrNotFound        = errors.New("short code not found")
	ErrDuplicateCode   = errors.New("short code already exists")
	ErrDuplicateURL    = errors.New("long URL already shortened")
	ErrCapacityReached = errors.New("storage capacity reached")
)

// Storage defines the persistence operations for URL records.
type Storage interface {
	// Create persists a new record. It returns ErrDuplicateCode when the
	// short code is already taken and ErrDuplicateURL when the long URL
	// already has a code.
	Create(ctx context.Context, record types.URLRecord) error

	// GetByCode returns the record stored under a short code.
	GetByCode(ctx context.Context, code string) (types.URLRecord, error)

	// GetByLongURL returns the record that already shortens longURL.
	GetByLongURL(ctx context.Context, longURL string) (types.URLRecord, error)

	// IncrementHits bumps the redirect counter of a short code.
	IncrementHits(ctx context.Context, code string) error

	// LastCode returns the most recently inserted short code, or the empty
	// string when nothing has been stored yet.
	LastCode(ctx context.Context) (string, error)

	// Close releases any resources held by the store.
	Close() error
}
