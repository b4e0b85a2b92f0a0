package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"go-link-shortener/types"
)

// MockURLService is a mock implementation of the services.URLService interface.
type MockURLService struct {
	mock.Mock
}

func (m *MockURLService) ShortenURL(ctx context.Context, rawURL string) (types.URLRecord, error) {
	args := m.Called(ctx, rawURL)
	return args.Get(0).(types.URLRecord), args.Error(1)
}

func (m *MockURLService) ResolveURL(ctx context.Context, code string) (types.URLRecord, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(types.URLRecord), args.Error(1)
}

func (m *MockURLService) GetURLDetails(ctx context.Context, shortURL string) (types.URLRecord, error) {
	args := m.Called(ctx, shortURL)
	return args.Get(0).(types.URLRecord), args.Error(1)
}
