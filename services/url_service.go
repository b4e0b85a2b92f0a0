package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"go-link-shortener/storage"
	"go-link-shortener/types"
	"go-link-shortener/urlgen"
)

// Errors exposed to the HTTP layer.
var (
	ErrNotFound         = errors.New("short URL not found")
	ErrStoreUnavailable = errors.New("storage unavailable")
	ErrForeignShortURL  = errors.New("short URL was not issued by this service")
	ErrCapacityReached  = errors.New("storage capacity reached")
)

// createAttempts bounds the retry loop that resolves short code collisions
// with concurrent writers.
const createAttempts = 5

// Admitter validates a raw URL and returns its canonical form. Rejections
// come back as errors and pass through this package untouched.
type Admitter interface {
	Admit(ctx context.Context, rawURL string) (string, error)
}

// URLService exposes the shortening operations used by the HTTP layer.
type URLService interface {
	// ShortenURL admits rawURL and returns its record, minting a new short
	// code only when the URL has not been shortened before.
	ShortenURL(ctx context.Context, rawURL string) (types.URLRecord, error)
	// ResolveURL returns the record behind a short code and counts the hit.
	ResolveURL(ctx context.Context, code string) (types.URLRecord, error)
	// GetURLDetails returns the record behind a short URL or bare code
	// without counting a hit.
	GetURLDetails(ctx context.Context, shortURL string) (types.URLRecord, error)
}

type urlService struct {
	store    storage.Storage
	admitter Admitter
	reserved urlgen.ReservedSet
	baseURL  string
	logger   *zap.Logger
	mu       sync.Mutex // serializes code generation against inserts
}

// NewURLService wires the admission pipeline, the code generator and the
// backing store together. baseURL must carry a trailing slash.
func NewURLService(store storage.Storage, admitter Admitter, reserved urlgen.ReservedSet, baseURL string, logger *zap.Logger) URLService {
	return &urlService{
		store:    store,
		admitter: admitter,
		reserved: reserved,
		baseURL:  baseURL,
		logger:   logger,
	}
}

func (s *urlService) ShortenURL(ctx context.Context, rawURL string) (types.URLRecord, error) {
	longURL, err := s.admitter.Admit(ctx, rawURL)
	if err != nil {
		return types.URLRecord{}, err
	}

	// Serve an existing mapping without generating a new code.
	existing, err := s.store.GetByLongURL(ctx, longURL)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return types.URLRecord{}, s.storeFailure(err)
	}

	return s.createRecord(ctx, longURL)
}

// createRecord mints the next free short code and persists the mapping. The
// mutex keeps LastCode and Create from interleaving with other writers in
// this process; the store's unique constraints are the backstop for writers
// elsewhere.
func (s *urlService) createRecord(ctx context.Context, longURL string) (types.URLRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for attempt := 0; attempt < createAttempts; attempt++ {
		last, err := s.store.LastCode(ctx)
		if err != nil {
			return types.URLRecord{}, s.storeFailure(err)
		}

		record := types.URLRecord{
			Code:      urlgen.Next(last, s.reserved),
			LongURL:   longURL,
			CreatedAt: time.Now().UTC(),
		}

		err = s.store.Create(ctx, record)
		switch {
		case err == nil:
			s.logger.Info("Short URL created",
				zap.String("code", record.Code),
				zap.String("longURL", record.LongURL))
			return record, nil
		case errors.Is(err, storage.ErrDuplicateURL):
			// Another writer shortened the same URL first; reuse theirs.
			existing, getErr := s.store.GetByLongURL(ctx, longURL)
			if getErr != nil {
				return types.URLRecord{}, s.storeFailure(getErr)
			}
			return existing, nil
		case errors.Is(err, storage.ErrDuplicateCode):
			// Another writer took the code; recompute from the new tail.
			continue
		case errors.Is(err, storage.ErrCapacityReached):
			return types.URLRecord{}, ErrCapacityReached
		default:
			return types.URLRecord{}, s.storeFailure(err)
		}
	}

	return types.URLRecord{}, fmt.Errorf("%w: could not place a unique short code", ErrStoreUnavailable)
}

func (s *urlService) ResolveURL(ctx context.Context, code string) (types.URLRecord, error) {
	record, err := s.store.GetByCode(ctx, code)
	if errors.Is(err, storage.ErrNotFound) {
		return types.URLRecord{}, ErrNotFound
	}
	if err != nil {
		return types.URLRecord{}, s.storeFailure(err)
	}

	if err := s.store.IncrementHits(ctx, code); err != nil {
		// The redirect still works; losing one count is acceptable.
		s.logger.Warn("Failed to count redirect", zap.String("code", code), zap.Error(err))
	} else {
		record.HitCount++
	}

	return record, nil
}

func (s *urlService) GetURLDetails(ctx context.Context, shortURL string) (types.URLRecord, error) {
	code, err := s.extractCode(shortURL)
	if err != nil {
		return types.URLRecord{}, err
	}

	record, err := s.store.GetByCode(ctx, code)
	if errors.Is(err, storage.ErrNotFound) {
		return types.URLRecord{}, ErrNotFound
	}
	if err != nil {
		return types.URLRecord{}, s.storeFailure(err)
	}
	return record, nil
}

// extractCode accepts either a bare short code or a full short URL issued by
// this service.
func (s *urlService) extractCode(shortURL string) (string, error) {
	trimmed := strings.TrimSpace(shortURL)
	if !strings.Contains(trimmed, "://") {
		if trimmed == "" {
			return "", ErrNotFound
		}
		return trimmed, nil
	}

	if !strings.HasPrefix(trimmed, s.baseURL) {
		return "", ErrForeignShortURL
	}
	code := strings.TrimPrefix(trimmed, s.baseURL)
	if code == "" || strings.Contains(code, "/") {
		return "", ErrForeignShortURL
	}
	return code, nil
}

// storeFailure wraps unexpected storage errors so handlers can answer with a
// 503 without leaking driver details. Context errors pass through untouched.
func (s *urlService) storeFailure(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	s.logger.Error("Storage operation failed", zap.Error(err))
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
