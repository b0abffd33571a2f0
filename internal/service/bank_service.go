package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"belegwerk/internal/bankimport"
	"belegwerk/internal/domain"
	"belegwerk/internal/locale"
	"belegwerk/internal/pdftext"
	"belegwerk/internal/port"
)

// BankImportSummary reports the outcome of one statement import.
type BankImportSummary struct {
	FileName   string            `json:"file_name"`
	Format     string            `json:"format"`
	RowCount   int               `json:"row_count"`
	Confidence domain.Confidence `json:"confidence"`
}

// BankService imports bank statements and manages the transaction list.
type BankService interface {
	ImportStatement(ctx context.Context, fileName string, data []byte) (*BankImportSummary, error)
	List(ctx context.Context, offset, limit int) ([]domain.BankTransaction, int, error)
	ListByPeriod(ctx context.Context, from, to time.Time) ([]domain.BankTransaction, error)
	SetValidated(ctx context.Context, id uuid.UUID, validated bool) error
}

type bankService struct {
	registry *bankimport.Registry
	txns     port.BankTransactionRepository
}

// NewBankService creates a new BankService implementation.
func NewBankService(registry *bankimport.Registry, txns port.BankTransactionRepository) BankService {
	return &bankService{registry: registry, txns: txns}
}

// ImportStatement extracts the transaction table of one statement PDF and
// persists all rows atomically. Unlike invoices, bank rows skip the staging
// step: they carry no legal numbering and are individually validated later.
func (s *bankService) ImportStatement(ctx context.Context, fileName string, data []byte) (*BankImportSummary, error) {
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, fmt.Errorf("bankService.ImportStatement: %s: %w", fileName, domain.ErrUnsupportedFileType)
	}

	doc, err := pdftext.ExtractText(data)
	if err != nil {
		return nil, fmt.Errorf("bankService.ImportStatement: %w", err)
	}

	format := s.registry.Detect(doc.Pages)
	if format == nil {
		return nil, fmt.Errorf("bankService.ImportStatement: %s: %w", fileName, domain.ErrUnrecognizedDocument)
	}

	extracted, confidence, err := s.registry.Extract(doc.Pages)
	if err != nil {
		return nil, fmt.Errorf("bankService.ImportStatement: %w", err)
	}

	txns := buildTransactions(extracted)

	if err := s.txns.CreateBatch(ctx, txns); err != nil {
		return nil, fmt.Errorf("bankService.ImportStatement: %w", err)
	}

	log.Printf("bankService: imported %d rows from %s (%s)", len(txns), fileName, format.Name())
	return &BankImportSummary{
		FileName:   fileName,
		Format:     format.Name(),
		RowCount:   len(txns),
		Confidence: confidence,
	}, nil
}

// buildTransactions derives the persisted rows, splitting each gross amount
// into net and VAT from the row's type hint.
func buildTransactions(extracted []domain.ExtractedTransaction) []domain.BankTransaction {
	txns := make([]domain.BankTransaction, 0, len(extracted))
	for _, row := range extracted {
		rate := locale.VATRateFromHint(row.TypeHint)
		net, vat := locale.SplitGross(row.Amount, rate)
		txns = append(txns, domain.BankTransaction{
			BookedOn:      row.BookedOn,
			Correspondent: row.Correspondent,
			Title:         row.Title,
			Description:   row.Description,
			TypeHint:      row.TypeHint,
			Amount:        row.Amount,
			Currency:      row.Currency,
			NetAmount:     net,
			VATAmount:     vat,
		})
	}
	return txns
}

func (s *bankService) List(ctx context.Context, offset, limit int) ([]domain.BankTransaction, int, error) {
	return s.txns.List(ctx, offset, limit)
}

func (s *bankService) ListByPeriod(ctx context.Context, from, to time.Time) ([]domain.BankTransaction, error) {
	return s.txns.ListByPeriod(ctx, from, to)
}

func (s *bankService) SetValidated(ctx context.Context, id uuid.UUID, validated bool) error {
	return s.txns.SetValidated(ctx, id, validated)
}
