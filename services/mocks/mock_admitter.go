package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockAdmitter is a mock implementation of the services.Admitter interface.
type MockAdmitter struct {
	mock.Mock
}

func (m *MockAdmitter) Admit(ctx context.Context, rawURL string) (string, error) {
	args := m.Called(ctx, rawURL)
	return args.String(0), args.Error(1)
}
