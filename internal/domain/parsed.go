package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ParsedDocument is the transient result of extracting one source PDF. It is
// owned by the in-progress import session and is never persisted directly;
// commit converts it into an Invoice or Quote record and discards it.
type ParsedDocument struct {
	Type        DocumentType `json:"type"`
	RawText     string       `json:"raw_text"`
	Fields      ParsedFields `json:"fields"`
	Confidence  Confidence   `json:"confidence"`
	Tier        ExtractionTier `json:"tier"`
	ReviewHints []string     `json:"review_hints,omitempty"`
}

// ParsedFields is the type-dependent field bag of a parsed invoice or quote.
type ParsedFields struct {
	DocumentNumber string          `json:"document_number"`
	IssueDate      *time.Time      `json:"issue_date"`
	DueDate        *time.Time      `json:"due_date"` // valid-until for quotes
	Customer       CustomerBlock   `json:"customer"`
	Items          []LineItem      `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	VATRate        decimal.Decimal `json:"vat_rate"`
	VATAmount      decimal.Decimal `json:"vat_amount"`
	Total          decimal.Decimal `json:"total"`
	ServiceStart   *time.Time      `json:"service_start,omitempty"`
	ServiceEnd     *time.Time      `json:"service_end,omitempty"`
	Location       string          `json:"location,omitempty"`
	IsProject      bool            `json:"is_project"`
	Notes          string          `json:"notes,omitempty"`
}

// CustomerBlock is the extracted customer identity from a document's address
// block.
type CustomerBlock struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Street    string `json:"street"`
	Zip       string `json:"zip"`
	City      string `json:"city"`
	TaxNumber string `json:"tax_number"`
}

// LineItem is one row of an invoice or quote item table.
// Invariant: Total = round(Quantity * UnitPrice, 2).
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// ComputedTotal returns Quantity * UnitPrice rounded to two decimal places.
func (li LineItem) ComputedTotal() decimal.Decimal {
	return li.Quantity.Mul(li.UnitPrice).Round(2)
}

// ExtractedTransaction is one row extracted from a bank statement. Distinct
// from the persisted BankTransaction, which additionally carries the net/VAT
// breakdown computed at persist time.
type ExtractedTransaction struct {
	BookedOn      time.Time       `json:"booked_on"`
	Correspondent string          `json:"correspondent"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	TypeHint      string          `json:"type_hint"`
	Amount        decimal.Decimal `json:"amount"` // negative = outflow
	Currency      string          `json:"currency"`
}

// CustomerSuggestion is a fuzzy near-match offered to the reviewer alongside
// a draft customer. Suggestions never resolve automatically.
type CustomerSuggestion struct {
	CustomerID uuid.UUID `json:"customer_id"`
	Name       string    `json:"name"`
	Rank       int       `json:"rank"` // Levenshtein rank, lower is closer
}

// CustomerMatchCandidate is the resolver's proposal: either a reference to an
// existing customer or a draft awaiting creation at commit time.
type CustomerMatchCandidate struct {
	ExistingID  *uuid.UUID           `json:"existing_id,omitempty"`
	Draft       *CustomerBlock       `json:"draft,omitempty"`
	Suggestions []CustomerSuggestion `json:"suggestions,omitempty"`
}

// StagedImport holds one parsed-but-unconfirmed result per import session.
// Every field of Document may be overridden by the reviewer before commit.
type StagedImport struct {
	SessionID      uuid.UUID              `json:"session_id"`
	FileName       string                 `json:"file_name"`
	FileBytes      []byte                 `json:"-"`
	Document       ParsedDocument         `json:"document"`
	Candidate      CustomerMatchCandidate `json:"candidate"`
	State          ImportState            `json:"state"`
	AssignedNumber int64                  `json:"assigned_number,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	ExpiresAt      time.Time              `json:"expires_at"`
}

// BatchItemResult is the per-file outcome surfaced to the batch upload UI.
// Batch uploads only stage; each session is still reviewed and committed
// individually, so no document number appears here.
type BatchItemResult struct {
	FileName  string          `json:"file_name"`
	Status    BatchItemStatus `json:"status"`
	SessionID *uuid.UUID      `json:"session_id,omitempty"`
	Message   string          `json:"message,omitempty"`
}
