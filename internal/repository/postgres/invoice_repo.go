package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"belegwerk/internal/domain"
	"belegwerk/internal/port"
)

// Advisory lock keys serializing document number assignment. One key per
// sequence; invoices and quotes number independently.
const (
	invoiceSequenceLock int64 = 7401
	quoteSequenceLock   int64 = 7402
)

type invoiceRepo struct {
	db *sqlx.DB
}

// NewInvoiceRepo creates a new PostgreSQL-backed InvoiceRepository.
func NewInvoiceRepo(db *sqlx.DB) port.InvoiceRepository {
	return &invoiceRepo{db: db}
}

// Create assigns the next document number and inserts the invoice in a
// single transaction. The advisory lock is held until commit, so two
// concurrent commits can never observe the same MAX and the sequence stays
// gapless: 1, 2, 3 with no holes and no duplicates. A non-nil newCustomer
// is inserted in the same transaction; rollback then consumes neither a
// number nor a customer row.
func (r *invoiceRepo) Create(ctx context.Context, invoice *domain.Invoice, newCustomer *domain.Customer) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("invoiceRepo.Create begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if newCustomer != nil {
		if err := insertCustomer(ctx, tx, newCustomer); err != nil {
			return 0, fmt.Errorf("invoiceRepo.Create customer: %w", err)
		}
		invoice.CustomerID = newCustomer.ID
	}

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", invoiceSequenceLock); err != nil {
		return 0, fmt.Errorf("invoiceRepo.Create lock: %w", err)
	}

	var next int64
	if err := tx.GetContext(ctx, &next,
		"SELECT COALESCE(MAX(document_number), 0) + 1 FROM invoices"); err != nil {
		return 0, fmt.Errorf("invoiceRepo.Create next number: %w", err)
	}

	invoice.ID = uuid.New()
	invoice.DocumentNumber = next
	invoice.CreatedAt = time.Now().UTC()

	query := `INSERT INTO invoices (id, document_number, customer_id, issue_date, due_date,
			service_start, service_end, location, is_project, items,
			subtotal, vat_rate, vat_amount, total, notes, source_confidence, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err = tx.ExecContext(ctx, query,
		invoice.ID, invoice.DocumentNumber, invoice.CustomerID,
		invoice.IssueDate, invoice.DueDate,
		invoice.ServiceStart, invoice.ServiceEnd, invoice.Location, invoice.IsProject,
		invoice.Items, invoice.Subtotal, invoice.VATRate, invoice.VATAmount,
		invoice.Total, invoice.Notes, invoice.Confidence, invoice.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("invoiceRepo.Create insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("invoiceRepo.Create commit: %w", err)
	}
	return next, nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := r.db.GetContext(ctx, &invoice, "SELECT * FROM invoices WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByID: %w", err)
	}
	return &invoice, nil
}

func (r *invoiceRepo) GetByNumber(ctx context.Context, documentNumber int64) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := r.db.GetContext(ctx, &invoice,
		"SELECT * FROM invoices WHERE document_number = $1", documentNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByNumber: %w", err)
	}
	return &invoice, nil
}

func (r *invoiceRepo) List(ctx context.Context, offset, limit int) ([]domain.Invoice, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM invoices"); err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.List count: %w", err)
	}

	var invoices []domain.Invoice
	err := r.db.SelectContext(ctx, &invoices,
		"SELECT * FROM invoices ORDER BY document_number DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.List: %w", err)
	}
	return invoices, total, nil
}

func (r *invoiceRepo) ListByPeriod(ctx context.Context, from, to time.Time) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	err := r.db.SelectContext(ctx, &invoices,
		`SELECT * FROM invoices WHERE issue_date >= $1 AND issue_date < $2
		 ORDER BY document_number ASC`, from, to)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.ListByPeriod: %w", err)
	}
	return invoices, nil
}
