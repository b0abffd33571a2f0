package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"belegwerk/internal/domain"
	"belegwerk/internal/port"
)

type bankTransactionRepo struct {
	db *sqlx.DB
}

// NewBankTransactionRepo creates a new PostgreSQL-backed BankTransactionRepository.
func NewBankTransactionRepo(db *sqlx.DB) port.BankTransactionRepository {
	return &bankTransactionRepo{db: db}
}

// CreateBatch inserts all rows of one statement import atomically. A
// statement either lands completely or not at all.
func (r *bankTransactionRepo) CreateBatch(ctx context.Context, txns []domain.BankTransaction) error {
	if len(txns) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("bankTransactionRepo.CreateBatch begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `INSERT INTO bank_transactions (id, booked_on, correspondent, title, description,
			type_hint, amount, currency, net_amount, vat_amount, is_validated, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	now := time.Now().UTC()
	for i := range txns {
		txns[i].ID = uuid.New()
		txns[i].CreatedAt = now
		_, err := tx.ExecContext(ctx, query,
			txns[i].ID, txns[i].BookedOn, txns[i].Correspondent, txns[i].Title,
			txns[i].Description, txns[i].TypeHint, txns[i].Amount, txns[i].Currency,
			txns[i].NetAmount, txns[i].VATAmount, txns[i].IsValidated, txns[i].CreatedAt)
		if err != nil {
			return fmt.Errorf("bankTransactionRepo.CreateBatch insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("bankTransactionRepo.CreateBatch commit: %w", err)
	}
	return nil
}

func (r *bankTransactionRepo) List(ctx context.Context, offset, limit int) ([]domain.BankTransaction, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM bank_transactions"); err != nil {
		return nil, 0, fmt.Errorf("bankTransactionRepo.List count: %w", err)
	}

	var txns []domain.BankTransaction
	err := r.db.SelectContext(ctx, &txns,
		"SELECT * FROM bank_transactions ORDER BY booked_on DESC, created_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("bankTransactionRepo.List: %w", err)
	}
	return txns, total, nil
}

func (r *bankTransactionRepo) ListByPeriod(ctx context.Context, from, to time.Time) ([]domain.BankTransaction, error) {
	var txns []domain.BankTransaction
	err := r.db.SelectContext(ctx, &txns,
		`SELECT * FROM bank_transactions WHERE booked_on >= $1 AND booked_on < $2
		 ORDER BY booked_on ASC, created_at ASC`, from, to)
	if err != nil {
		return nil, fmt.Errorf("bankTransactionRepo.ListByPeriod: %w", err)
	}
	return txns, nil
}

func (r *bankTransactionRepo) SetValidated(ctx context.Context, id uuid.UUID, validated bool) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE bank_transactions SET is_validated = $2 WHERE id = $1", id, validated)
	if err != nil {
		return fmt.Errorf("bankTransactionRepo.SetValidated: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}
