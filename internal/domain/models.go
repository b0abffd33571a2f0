package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer is a persisted entry in the customer registry.
type Customer struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Street    string    `db:"street" json:"street"`
	Zip       string    `db:"zip" json:"zip"`
	City      string    `db:"city" json:"city"`
	TaxNumber string    `db:"tax_number" json:"tax_number"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Invoice is a committed invoice record. DocumentNumber is the legally
// mandated gapless sequential identifier, assigned exactly once at commit and
// immutable thereafter.
type Invoice struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	DocumentNumber int64           `db:"document_number" json:"document_number"`
	CustomerID     uuid.UUID       `db:"customer_id" json:"customer_id"`
	IssueDate      time.Time       `db:"issue_date" json:"issue_date"`
	DueDate        time.Time       `db:"due_date" json:"due_date"`
	ServiceStart   *time.Time      `db:"service_start" json:"service_start,omitempty"`
	ServiceEnd     *time.Time      `db:"service_end" json:"service_end,omitempty"`
	Location       string          `db:"location" json:"location,omitempty"`
	IsProject      bool            `db:"is_project" json:"is_project"`
	Items          LineItems       `db:"items" json:"items"`
	Subtotal       decimal.Decimal `db:"subtotal" json:"subtotal"`
	VATRate        decimal.Decimal `db:"vat_rate" json:"vat_rate"`
	VATAmount      decimal.Decimal `db:"vat_amount" json:"vat_amount"`
	Total          decimal.Decimal `db:"total" json:"total"`
	Notes          string          `db:"notes" json:"notes,omitempty"`
	Confidence     Confidence      `db:"source_confidence" json:"source_confidence"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// Quote is a committed quote record with its own gapless number sequence.
type Quote struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	DocumentNumber int64           `db:"document_number" json:"document_number"`
	CustomerID     uuid.UUID       `db:"customer_id" json:"customer_id"`
	IssueDate      time.Time       `db:"issue_date" json:"issue_date"`
	ValidUntil     time.Time       `db:"valid_until" json:"valid_until"`
	Items          LineItems       `db:"items" json:"items"`
	Subtotal       decimal.Decimal `db:"subtotal" json:"subtotal"`
	VATRate        decimal.Decimal `db:"vat_rate" json:"vat_rate"`
	VATAmount      decimal.Decimal `db:"vat_amount" json:"vat_amount"`
	Total          decimal.Decimal `db:"total" json:"total"`
	Notes          string          `db:"notes" json:"notes,omitempty"`
	Confidence     Confidence      `db:"source_confidence" json:"source_confidence"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// BankTransaction is a persisted bank statement row. IsValidated stays false
// until it has passed separate human review.
type BankTransaction struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	BookedOn      time.Time       `db:"booked_on" json:"booked_on"`
	Correspondent string          `db:"correspondent" json:"correspondent"`
	Title         string          `db:"title" json:"title"`
	Description   string          `db:"description" json:"description"`
	TypeHint      string          `db:"type_hint" json:"type_hint"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	Currency      string          `db:"currency" json:"currency"`
	NetAmount     decimal.Decimal `db:"net_amount" json:"net_amount"`
	VATAmount     decimal.Decimal `db:"vat_amount" json:"vat_amount"`
	IsValidated   bool            `db:"is_validated" json:"is_validated"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// FormatInvoiceNumber renders a stored invoice number for display ("RE-000042").
// Sequence arithmetic always operates on the bare integer.
func FormatInvoiceNumber(n int64) string {
	return fmt.Sprintf("RE-%06d", n)
}

// FormatQuoteNumber renders a stored quote number for display ("AN-000042").
func FormatQuoteNumber(n int64) string {
	return fmt.Sprintf("AN-%06d", n)
}
