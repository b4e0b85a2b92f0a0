package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"go-link-shortener/types"
)

// MockStorage is a mock implementation of the storage.Storage interface.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Create(ctx context.Context, record types.URLRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockStorage) GetByCode(ctx context.Context, code string) (types.URLRecord, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(types.URLRecord), args.Error(1)
}

func (m *MockStorage) GetByLongURL(ctx context.Context, longURL string) (types.URLRecord, error) {
	args := m.Called(ctx, longURL)
	return args.Get(0).(types.URLRecord), args.Error(1)
}

func (m *MockStorage) IncrementHits(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockStorage) LastCode(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) Close() error {
	args := m.Called()
	return args.Error(0)
}
