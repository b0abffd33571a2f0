package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"belegwerk/internal/domain"
)

// CustomerRepository defines the contract for customer persistence.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	GetByName(ctx context.Context, name string) (*domain.Customer, error)
	List(ctx context.Context, offset, limit int) ([]domain.Customer, int, error)
	Update(ctx context.Context, customer *domain.Customer) error
}

// InvoiceRepository defines the contract for committed invoice persistence.
// Create assigns the next document number inside a single transaction so the
// gapless sequence holds under concurrency; a non-nil newCustomer is
// inserted in that same transaction and linked to the invoice, leaving no
// partial state behind a failed insert.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *domain.Invoice, newCustomer *domain.Customer) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	GetByNumber(ctx context.Context, documentNumber int64) (*domain.Invoice, error)
	List(ctx context.Context, offset, limit int) ([]domain.Invoice, int, error)
	ListByPeriod(ctx context.Context, from, to time.Time) ([]domain.Invoice, error)
}

// QuoteRepository defines the contract for committed quote persistence. The
// quote number sequence is independent of the invoice sequence; Create
// follows the same single-transaction contract as InvoiceRepository.Create.
type QuoteRepository interface {
	Create(ctx context.Context, quote *domain.Quote, newCustomer *domain.Customer) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Quote, error)
	GetByNumber(ctx context.Context, documentNumber int64) (*domain.Quote, error)
	List(ctx context.Context, offset, limit int) ([]domain.Quote, int, error)
}

// BankTransactionRepository defines the contract for bank statement row
// persistence.
type BankTransactionRepository interface {
	CreateBatch(ctx context.Context, txns []domain.BankTransaction) error
	List(ctx context.Context, offset, limit int) ([]domain.BankTransaction, int, error)
	ListByPeriod(ctx context.Context, from, to time.Time) ([]domain.BankTransaction, error)
	SetValidated(ctx context.Context, id uuid.UUID, validated bool) error
}
