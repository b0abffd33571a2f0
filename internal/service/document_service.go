package service

import (
	"context"
	"fmt"
	"time"

	"belegwerk/internal/domain"
	"belegwerk/internal/port"
)

// DocumentService reads committed invoice and quote records. Records are
// append-only: there is no update or delete path after commit.
type DocumentService interface {
	ListInvoices(ctx context.Context, offset, limit int) ([]domain.Invoice, int, error)
	GetInvoiceByNumber(ctx context.Context, number int64) (*domain.Invoice, error)
	ListQuotes(ctx context.Context, offset, limit int) ([]domain.Quote, int, error)
	GetQuoteByNumber(ctx context.Context, number int64) (*domain.Quote, error)
	InvoicesForExport(ctx context.Context, from, to time.Time) ([]domain.Invoice, map[string]string, error)
}

type documentService struct {
	invoices  port.InvoiceRepository
	quotes    port.QuoteRepository
	customers port.CustomerRepository
}

// NewDocumentService creates a new DocumentService implementation.
func NewDocumentService(invoices port.InvoiceRepository, quotes port.QuoteRepository, customers port.CustomerRepository) DocumentService {
	return &documentService{invoices: invoices, quotes: quotes, customers: customers}
}

func (s *documentService) ListInvoices(ctx context.Context, offset, limit int) ([]domain.Invoice, int, error) {
	offset, limit = clampPagination(offset, limit)
	return s.invoices.List(ctx, offset, limit)
}

func (s *documentService) GetInvoiceByNumber(ctx context.Context, number int64) (*domain.Invoice, error) {
	return s.invoices.GetByNumber(ctx, number)
}

func (s *documentService) ListQuotes(ctx context.Context, offset, limit int) ([]domain.Quote, int, error) {
	offset, limit = clampPagination(offset, limit)
	return s.quotes.List(ctx, offset, limit)
}

func (s *documentService) GetQuoteByNumber(ctx context.Context, number int64) (*domain.Quote, error) {
	return s.quotes.GetByNumber(ctx, number)
}

// InvoicesForExport returns the invoices issued in [from, to) together with a
// customer-name lookup keyed by customer ID.
func (s *documentService) InvoicesForExport(ctx context.Context, from, to time.Time) ([]domain.Invoice, map[string]string, error) {
	invoices, err := s.invoices.ListByPeriod(ctx, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("documentService.InvoicesForExport: %w", err)
	}

	names := make(map[string]string)
	for i := range invoices {
		key := invoices[i].CustomerID.String()
		if _, seen := names[key]; seen {
			continue
		}
		customer, err := s.customers.GetByID(ctx, invoices[i].CustomerID)
		if err != nil {
			// A record always outlives registry hiccups; the CSV cell
			// stays empty rather than failing the whole export.
			names[key] = ""
			continue
		}
		names[key] = customer.Name
	}
	return invoices, names, nil
}

// clampPagination applies the shared listing defaults.
func clampPagination(offset, limit int) (int, int) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
