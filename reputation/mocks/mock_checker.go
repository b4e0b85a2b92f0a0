package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockChecker is a mock implementation of the reputation.Checker interface.
type MockChecker struct {
	mock.Mock
}

func (m *MockChecker) Check(ctx context.Context, host string) ([]string, error) {
	args := m.Called(ctx, host)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
