package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockProber is a mock implementation of the admission.Prober interface.
type MockProber struct {
	mock.Mock
}

// Probe mocks the reachability check against a candidate URL.
func (m *MockProber) Probe(ctx context.Context, url string) (int, error) {
	args := m.Called(ctx, url)
	return args.Int(0), args.Error(1)
}
