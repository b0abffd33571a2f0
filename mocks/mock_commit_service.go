package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"belegwerk/internal/domain"
)

// MockCommitService is a mock implementation of service.CommitService.
type MockCommitService struct {
	mock.Mock
}

func (m *MockCommitService) Commit(ctx context.Context, sessionID uuid.UUID) (domain.StagedImport, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(domain.StagedImport), args.Error(1)
}
