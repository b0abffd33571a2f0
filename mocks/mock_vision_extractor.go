package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"belegwerk/internal/domain"
	"belegwerk/internal/port"
)

// MockVisionExtractor is a mock implementation of port.VisionExtractor.
type MockVisionExtractor struct {
	mock.Mock
}

func (m *MockVisionExtractor) Extract(ctx context.Context, input port.VisionInput) (*domain.ParsedDocument, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParsedDocument), args.Error(1)
}
