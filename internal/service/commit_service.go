package service

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"belegwerk/internal/domain"
	"belegwerk/internal/port"
	"belegwerk/internal/staging"
)

// CommitService turns staged sessions into committed, numbered records.
type CommitService interface {
	Commit(ctx context.Context, sessionID uuid.UUID) (domain.StagedImport, error)
}

type commitService struct {
	stage         *staging.Store
	customers     port.CustomerRepository
	invoices      port.InvoiceRepository
	quotes        port.QuoteRepository
	storage       port.ObjectStorage // nil disables archiving
	archiveBucket string
}

// NewCommitService creates a new CommitService implementation. storage may
// be nil when no document archive is configured.
func NewCommitService(
	stage *staging.Store,
	customers port.CustomerRepository,
	invoices port.InvoiceRepository,
	quotes port.QuoteRepository,
	storage port.ObjectStorage,
	archiveBucket string,
) CommitService {
	return &commitService{
		stage:         stage,
		customers:     customers,
		invoices:      invoices,
		quotes:        quotes,
		storage:       storage,
		archiveBucket: archiveBucket,
	}
}

// Commit validates the session, resolves or creates the customer, and writes
// the record with its freshly assigned document number. The number is minted
// inside the repository's transaction; a failure before that point leaves
// the sequence untouched, so the books never show a gap. After the record is
// durable the source PDF is archived; an archive failure is logged but never
// rolls back a committed record.
func (s *commitService) Commit(ctx context.Context, sessionID uuid.UUID) (domain.StagedImport, error) {
	staged, err := s.stage.Get(sessionID)
	if err != nil {
		return domain.StagedImport{}, err
	}
	if err := staging.Validate(&staged); err != nil {
		return domain.StagedImport{}, err
	}

	staged, err = s.stage.BeginCommit(sessionID)
	if err != nil {
		return domain.StagedImport{}, err
	}

	assigned, commitErr := s.commit(ctx, &staged)
	s.stage.FinishCommit(sessionID, assigned, commitErr)
	if commitErr != nil {
		return domain.StagedImport{}, commitErr
	}

	out, err := s.stage.Get(sessionID)
	if err != nil {
		return domain.StagedImport{}, err
	}
	return out, nil
}

func (s *commitService) commit(ctx context.Context, staged *domain.StagedImport) (int64, error) {
	customerID, newCustomer, err := s.resolveCustomer(ctx, staged)
	if err != nil {
		return 0, err
	}

	var assigned int64
	var display string
	f := &staged.Document.Fields

	switch staged.Document.Type {
	case domain.DocumentTypeInvoice:
		invoice := &domain.Invoice{
			CustomerID:   customerID,
			IssueDate:    *f.IssueDate,
			DueDate:      *f.DueDate,
			ServiceStart: f.ServiceStart,
			ServiceEnd:   f.ServiceEnd,
			Location:     f.Location,
			IsProject:    f.IsProject,
			Items:        domain.LineItems(f.Items),
			Subtotal:     f.Subtotal,
			VATRate:      f.VATRate,
			VATAmount:    f.VATAmount,
			Total:        f.Total,
			Notes:        f.Notes,
			Confidence:   staged.Document.Confidence,
		}
		assigned, err = s.invoices.Create(ctx, invoice, newCustomer)
		if err != nil {
			return 0, fmt.Errorf("commitService.Commit: %w", err)
		}
		display = domain.FormatInvoiceNumber(assigned)

	case domain.DocumentTypeQuote:
		quote := &domain.Quote{
			CustomerID: customerID,
			IssueDate:  *f.IssueDate,
			ValidUntil: *f.DueDate,
			Items:      domain.LineItems(f.Items),
			Subtotal:   f.Subtotal,
			VATRate:    f.VATRate,
			VATAmount:  f.VATAmount,
			Total:      f.Total,
			Notes:      f.Notes,
			Confidence: staged.Document.Confidence,
		}
		assigned, err = s.quotes.Create(ctx, quote, newCustomer)
		if err != nil {
			return 0, fmt.Errorf("commitService.Commit: %w", err)
		}
		display = domain.FormatQuoteNumber(assigned)

	default:
		return 0, fmt.Errorf("commitService.Commit: type %q: %w", staged.Document.Type, domain.ErrStagedInvalid)
	}

	log.Printf("commitService: committed session %s as %s", staged.SessionID, display)
	s.archive(ctx, staged, display)
	return assigned, nil
}

// resolveCustomer returns the existing customer ID, or the draft customer
// to be inserted alongside the record. The draft is never persisted here:
// it rides into the repository's Create so it shares the record's
// transaction and a failed commit leaves no customer behind.
func (s *commitService) resolveCustomer(ctx context.Context, staged *domain.StagedImport) (uuid.UUID, *domain.Customer, error) {
	if staged.Candidate.ExistingID != nil {
		cust, err := s.customers.GetByID(ctx, *staged.Candidate.ExistingID)
		if err != nil {
			return uuid.Nil, nil, fmt.Errorf("commitService.resolveCustomer: %w", err)
		}
		return cust.ID, nil, nil
	}

	draft := staged.Candidate.Draft
	return uuid.Nil, &domain.Customer{
		Name:      draft.Name,
		Email:     draft.Email,
		Street:    draft.Street,
		Zip:       draft.Zip,
		City:      draft.City,
		TaxNumber: draft.TaxNumber,
	}, nil
}

func (s *commitService) archive(ctx context.Context, staged *domain.StagedImport, display string) {
	if s.storage == nil || len(staged.FileBytes) == 0 {
		return
	}

	key := fmt.Sprintf("%s/%s/%s.pdf",
		staged.Document.Type, staged.Document.Fields.IssueDate.Format("2006"), display)
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.archiveBucket,
		Key:         key,
		Body:        bytes.NewReader(staged.FileBytes),
		ContentType: "application/pdf",
		Size:        int64(len(staged.FileBytes)),
	})
	if err != nil {
		log.Printf("commitService: archiving %s failed: %v: %v", display, domain.ErrArchiveFailed, err)
		return
	}
}
