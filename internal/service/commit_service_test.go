package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"belegwerk/internal/domain"
	"belegwerk/internal/port"
	"belegwerk/internal/service"
	"belegwerk/internal/staging"
	"belegwerk/mocks"
)

func stagedInvoice() domain.StagedImport {
	issue := time.Date(2025, 11, 24, 0, 0, 0, 0, time.UTC)
	due := issue.AddDate(0, 0, 14)
	return domain.StagedImport{
		FileName:  "rechnung.pdf",
		FileBytes: []byte("%PDF-1.4 source"),
		Document: domain.ParsedDocument{
			Type: domain.DocumentTypeInvoice,
			Fields: domain.ParsedFields{
				IssueDate: &issue,
				DueDate:   &due,
				Items: []domain.LineItem{
					{Description: "Beratung", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100), Total: decimal.NewFromInt(100)},
				},
				Subtotal:  decimal.NewFromInt(100),
				VATRate:   decimal.NewFromInt(19),
				VATAmount: decimal.NewFromInt(19),
				Total:     decimal.NewFromInt(119),
			},
			Confidence: domain.ConfidenceDeterministic,
		},
		Candidate: domain.CustomerMatchCandidate{
			Draft: &domain.CustomerBlock{Name: "ACME GmbH", Email: "buchhaltung@acme.de"},
		},
	}
}

func TestCommit_DraftCustomerRidesIntoInvoiceCreate(t *testing.T) {
	stage := staging.NewStore(time.Hour)
	id := stage.Stage(stagedInvoice())

	customers := new(mocks.MockCustomerRepo)

	invoices := new(mocks.MockInvoiceRepo)
	invoices.On("Create", mock.Anything, mock.MatchedBy(func(inv *domain.Invoice) bool {
		return inv.Total.Equal(decimal.NewFromInt(119))
	}), mock.MatchedBy(func(c *domain.Customer) bool {
		return c != nil && c.Name == "ACME GmbH" && c.Email == "buchhaltung@acme.de"
	})).Return(int64(1), nil)

	storage := new(mocks.MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "archive" && in.Key == "invoice/2025/RE-000001.pdf"
	})).Return(&port.UploadOutput{Location: "s3://archive/invoice/2025/RE-000001.pdf"}, nil)

	svc := service.NewCommitService(stage, customers, invoices, new(mocks.MockQuoteRepo), storage, "archive")

	out, err := svc.Commit(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, domain.ImportStateCommitted, out.State)
	assert.Equal(t, int64(1), out.AssignedNumber)
	// The draft is created inside the invoice transaction, never on its own.
	customers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	invoices.AssertExpectations(t)
	storage.AssertExpectations(t)
}

func TestCommit_ExistingCustomerIsNotRecreated(t *testing.T) {
	stage := staging.NewStore(time.Hour)
	staged := stagedInvoice()
	existing := uuid.New()
	staged.Candidate = domain.CustomerMatchCandidate{ExistingID: &existing}
	id := stage.Stage(staged)

	customers := new(mocks.MockCustomerRepo)
	customers.On("GetByID", mock.Anything, existing).
		Return(&domain.Customer{ID: existing, Name: "ACME GmbH"}, nil)

	invoices := new(mocks.MockInvoiceRepo)
	invoices.On("Create", mock.Anything, mock.MatchedBy(func(inv *domain.Invoice) bool {
		return inv.CustomerID == existing
	}), mock.MatchedBy(func(c *domain.Customer) bool {
		return c == nil
	})).Return(int64(7), nil)

	svc := service.NewCommitService(stage, customers, invoices, new(mocks.MockQuoteRepo), nil, "")

	out, err := svc.Commit(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(7), out.AssignedNumber)
	customers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCommit_QuoteUsesOwnSequence(t *testing.T) {
	stage := staging.NewStore(time.Hour)
	staged := stagedInvoice()
	staged.Document.Type = domain.DocumentTypeQuote
	id := stage.Stage(staged)

	quotes := new(mocks.MockQuoteRepo)
	quotes.On("Create", mock.Anything, mock.AnythingOfType("*domain.Quote"), mock.AnythingOfType("*domain.Customer")).
		Return(int64(3), nil)

	svc := service.NewCommitService(stage, new(mocks.MockCustomerRepo), new(mocks.MockInvoiceRepo), quotes, nil, "")

	out, err := svc.Commit(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(3), out.AssignedNumber)
	quotes.AssertExpectations(t)
}

func TestCommit_InvalidSessionStaysStagedAndUnnumbered(t *testing.T) {
	stage := staging.NewStore(time.Hour)
	staged := stagedInvoice()
	staged.Document.Fields.IssueDate = nil
	id := stage.Stage(staged)

	invoices := new(mocks.MockInvoiceRepo)
	svc := service.NewCommitService(stage, new(mocks.MockCustomerRepo), invoices, new(mocks.MockQuoteRepo), nil, "")

	_, err := svc.Commit(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrStagedInvalid)

	got, err := stage.Get(id)
	require.NoError(t, err)
	assert.Equal(t, domain.ImportStateStaged, got.State)
	invoices.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCommit_RepoFailureReturnsSessionToStaged(t *testing.T) {
	stage := staging.NewStore(time.Hour)
	id := stage.Stage(stagedInvoice())

	customers := new(mocks.MockCustomerRepo)
	invoices := new(mocks.MockInvoiceRepo)
	invoices.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Return(int64(0), errors.New("db down"))

	svc := service.NewCommitService(stage, customers, invoices, new(mocks.MockQuoteRepo), nil, "")

	_, err := svc.Commit(context.Background(), id)
	require.Error(t, err)

	got, err := stage.Get(id)
	require.NoError(t, err)
	assert.Equal(t, domain.ImportStateStaged, got.State)
	assert.Zero(t, got.AssignedNumber)
	// The failed commit must not leave the draft customer behind either.
	customers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCommit_SecondCommitConflicts(t *testing.T) {
	stage := staging.NewStore(time.Hour)
	id := stage.Stage(stagedInvoice())

	invoices := new(mocks.MockInvoiceRepo)
	invoices.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)

	svc := service.NewCommitService(stage, new(mocks.MockCustomerRepo), invoices, new(mocks.MockQuoteRepo), nil, "")

	_, err := svc.Commit(context.Background(), id)
	require.NoError(t, err)

	_, err = svc.Commit(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrCommitConflict)
}

func TestCommit_ArchiveFailureDoesNotRollBack(t *testing.T) {
	stage := staging.NewStore(time.Hour)
	id := stage.Stage(stagedInvoice())

	invoices := new(mocks.MockInvoiceRepo)
	invoices.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)
	storage := new(mocks.MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("bucket gone"))

	svc := service.NewCommitService(stage, new(mocks.MockCustomerRepo), invoices, new(mocks.MockQuoteRepo), storage, "archive")

	out, err := svc.Commit(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.ImportStateCommitted, out.State)
}
