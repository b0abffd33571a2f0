package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"belegwerk/internal/domain"
	"belegwerk/internal/service"
)

// MockBankService is a mock implementation of service.BankService.
type MockBankService struct {
	mock.Mock
}

func (m *MockBankService) ImportStatement(ctx context.Context, fileName string, data []byte) (*service.BankImportSummary, error) {
	args := m.Called(ctx, fileName, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BankImportSummary), args.Error(1)
}

func (m *MockBankService) List(ctx context.Context, offset, limit int) ([]domain.BankTransaction, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.BankTransaction), args.Int(1), args.Error(2)
}

func (m *MockBankService) ListByPeriod(ctx context.Context, from, to time.Time) ([]domain.BankTransaction, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankTransaction), args.Error(1)
}

func (m *MockBankService) SetValidated(ctx context.Context, id uuid.UUID, validated bool) error {
	args := m.Called(ctx, id, validated)
	return args.Error(0)
}
