package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"belegwerk/internal/domain"
)

// MockBankTransactionRepo is a mock implementation of port.BankTransactionRepository.
type MockBankTransactionRepo struct {
	mock.Mock
}

func (m *MockBankTransactionRepo) CreateBatch(ctx context.Context, txns []domain.BankTransaction) error {
	args := m.Called(ctx, txns)
	return args.Error(0)
}

func (m *MockBankTransactionRepo) List(ctx context.Context, offset, limit int) ([]domain.BankTransaction, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.BankTransaction), args.Int(1), args.Error(2)
}

func (m *MockBankTransactionRepo) ListByPeriod(ctx context.Context, from, to time.Time) ([]domain.BankTransaction, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankTransaction), args.Error(1)
}

func (m *MockBankTransactionRepo) SetValidated(ctx context.Context, id uuid.UUID, validated bool) error {
	args := m.Called(ctx, id, validated)
	return args.Error(0)
}
