package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"belegwerk/internal/domain"
	"belegwerk/internal/service"
)

// MockImportService is a mock implementation of service.ImportService.
type MockImportService struct {
	mock.Mock
}

func (m *MockImportService) ImportFile(ctx context.Context, input service.ImportFileInput) (*domain.StagedImport, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StagedImport), args.Error(1)
}

func (m *MockImportService) ImportBatch(ctx context.Context, files []service.ImportFileInput) []domain.BatchItemResult {
	args := m.Called(ctx, files)
	return args.Get(0).([]domain.BatchItemResult)
}

func (m *MockImportService) GetSession(sessionID uuid.UUID) (domain.StagedImport, error) {
	args := m.Called(sessionID)
	return args.Get(0).(domain.StagedImport), args.Error(1)
}

func (m *MockImportService) UpdateSession(sessionID uuid.UUID, doc domain.ParsedDocument, candidate domain.CustomerMatchCandidate) (domain.StagedImport, error) {
	args := m.Called(sessionID, doc, candidate)
	return args.Get(0).(domain.StagedImport), args.Error(1)
}

func (m *MockImportService) CancelSession(sessionID uuid.UUID) error {
	args := m.Called(sessionID)
	return args.Error(0)
}
