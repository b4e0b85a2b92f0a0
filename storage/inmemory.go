package storage

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"go-link-shortener/types"
)

// InMemoryStorage implements the Storage interface using in-memory maps.
type InMemoryStorage struct {
	byCode   map[string]types.URLRecord // short code -> record
	byURL    map[string]string          // long URL -> short code
	lastCode string                     // code of the most recent insert
	mu       sync.RWMutex               // guards the maps and lastCode
	capacity int                        // maximum number of records held
	logger   *zap.Logger
}

// The sync.RWMutex allows concurrent readers while giving Create and
// IncrementHits exclusive access. lastCode tracks insertion order, which a
// map alone cannot provide.

// NewInMemoryStorage creates and returns a new InMemoryStorage instance.
func NewInMemoryStorage(capacity int, logger *zap.Logger) *InMemoryStorage {
	if capacity <= 0 {
		capacity = 1000 // Default capacity if an invalid value is provided
	}
	if logger == nil {
		var err error
		logger, err = zap.NewProduction()
		if err != nil {
			panic("Failed to initialize zap logger: " + err.Error())
		}
	}
	return &InMemoryStorage{
		byCode:   make(map[string]types.URLRecord, capacity),
		byURL:    make(map[string]string, capacity),
		capacity: capacity,
		logger:   logger,
	}
}

// Create adds a new record to the storage.
func (s *InMemoryStorage) Create(ctx context.Context, record types.URLRecord) error {
	select {
	case <-ctx.Done():
		s.logger.Warn("Create operation cancelled", zap.String("code", record.Code))
		return ctx.Err()
	default:
		s.mu.Lock()
		defer s.mu.Unlock()

		if len(s.byCode) >= s.capacity {
			s.logger.Error("Storage capacity reached. Cannot create short code",
				zap.String("code", record.Code))
			return ErrCapacityReached
		}
		if _, exists := s.byCode[record.Code]; exists {
			s.logger.Warn("Attempt to create duplicate short code", zap.String("code", record.Code))
			return ErrDuplicateCode
		}
		if _, exists := s.byURL[record.LongURL]; exists {
			s.logger.Warn("Attempt to shorten an already shortened URL",
				zap.String("longURL", record.LongURL))
			return ErrDuplicateURL
		}

		if record.CreatedAt.IsZero() {
			record.CreatedAt = time.Now().UTC()
		}
		s.byCode[record.Code] = record
		s.byURL[record.LongURL] = record.Code
		s.lastCode = record.Code
		s.logger.Info("Short code created",
			zap.String("code", record.Code),
			zap.String("longURL", record.LongURL),
			zap.Time("createdAt", record.CreatedAt))
		return nil
	}
}

// GetByCode retrieves the record stored under a short code.
func (s *InMemoryStorage) GetByCode(ctx context.Context, code string) (types.URLRecord, error) {
	select {
	case <-ctx.Done():
		s.logger.Warn("GetByCode operation cancelled", zap.String("code", code))
		return types.URLRecord{}, ctx.Err()
	default:
		s.mu.RLock()
		defer s.mu.RUnlock()

		record, exists := s.byCode[code]
		if !exists {
			return types.URLRecord{}, ErrNotFound
		}
		return record, nil
	}
}

// GetByLongURL retrieves the record that shortens the given long URL.
func (s *InMemoryStorage) GetByLongURL(ctx context.Context, longURL string) (types.URLRecord, error) {
	select {
	case <-ctx.Done():
		s.logger.Warn("GetByLongURL operation cancelled", zap.String("longURL", longURL))
		return types.URLRecord{}, ctx.Err()
	default:
		s.mu.RLock()
		defer s.mu.RUnlock()

		code, exists := s.byURL[longURL]
		if !exists {
			return types.URLRecord{}, ErrNotFound
		}
		return s.byCode[code], nil
	}
}

// IncrementHits bumps the redirect counter of a short code.
func (s *InMemoryStorage) IncrementHits(ctx context.Context, code string) error {
	select {
	case <-ctx.Done():
		s.logger.Warn("IncrementHits operation cancelled", zap.String("code", code))
		return ctx.Err()
	default:
		s.mu.Lock()
		defer s.mu.Unlock()

		record, exists := s.byCode[code]
		if !exists {
			s.logger.Warn("Attempt to count a hit on a non-existent short code",
				zap.String("code", code))
			return ErrNotFound
		}
		record.HitCount++
		s.byCode[code] = record
		return nil
	}
}

// LastCode returns the short code of the most recent insert.
func (s *InMemoryStorage) LastCode(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		s.logger.Warn("LastCode operation cancelled")
		return "", ctx.Err()
	default:
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.lastCode, nil
	}
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStorage) Close() error {
	return nil
}
