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

type quoteRepo struct {
	db *sqlx.DB
}

// NewQuoteRepo creates a new PostgreSQL-backed QuoteRepository.
func NewQuoteRepo(db *sqlx.DB) port.QuoteRepository {
	return &quoteRepo{db: db}
}

// Create assigns the next quote number and inserts the quote in a single
// transaction, under the quote sequence advisory lock. A non-nil
// newCustomer joins the same transaction.
func (r *quoteRepo) Create(ctx context.Context, quote *domain.Quote, newCustomer *domain.Customer) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("quoteRepo.Create begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if newCustomer != nil {
		if err := insertCustomer(ctx, tx, newCustomer); err != nil {
			return 0, fmt.Errorf("quoteRepo.Create customer: %w", err)
		}
		quote.CustomerID = newCustomer.ID
	}

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", quoteSequenceLock); err != nil {
		return 0, fmt.Errorf("quoteRepo.Create lock: %w", err)
	}

	var next int64
	if err := tx.GetContext(ctx, &next,
		"SELECT COALESCE(MAX(document_number), 0) + 1 FROM quotes"); err != nil {
		return 0, fmt.Errorf("quoteRepo.Create next number: %w", err)
	}

	quote.ID = uuid.New()
	quote.DocumentNumber = next
	quote.CreatedAt = time.Now().UTC()

	query := `INSERT INTO quotes (id, document_number, customer_id, issue_date, valid_until,
			items, subtotal, vat_rate, vat_amount, total, notes, source_confidence, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err = tx.ExecContext(ctx, query,
		quote.ID, quote.DocumentNumber, quote.CustomerID,
		quote.IssueDate, quote.ValidUntil, quote.Items,
		quote.Subtotal, quote.VATRate, quote.VATAmount, quote.Total,
		quote.Notes, quote.Confidence, quote.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("quoteRepo.Create insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("quoteRepo.Create commit: %w", err)
	}
	return next, nil
}

func (r *quoteRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	var quote domain.Quote
	err := r.db.GetContext(ctx, &quote, "SELECT * FROM quotes WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("quoteRepo.GetByID: %w", err)
	}
	return &quote, nil
}

func (r *quoteRepo) GetByNumber(ctx context.Context, documentNumber int64) (*domain.Quote, error) {
	var quote domain.Quote
	err := r.db.GetContext(ctx, &quote,
		"SELECT * FROM quotes WHERE document_number = $1", documentNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("quoteRepo.GetByNumber: %w", err)
	}
	return &quote, nil
}

func (r *quoteRepo) List(ctx context.Context, offset, limit int) ([]domain.Quote, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM quotes"); err != nil {
		return nil, 0, fmt.Errorf("quoteRepo.List count: %w", err)
	}

	var quotes []domain.Quote
	err := r.db.SelectContext(ctx, &quotes,
		"SELECT * FROM quotes ORDER BY document_number DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("quoteRepo.List: %w", err)
	}
	return quotes, total, nil
}
