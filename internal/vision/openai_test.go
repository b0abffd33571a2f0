package vision

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"belegwerk/internal/domain"
)

const goodOutput = `{
  "document_type": "invoice",
  "document_number": "RE-000123",
  "issue_date": "2025-11-24",
  "due_date": "2025-12-08",
  "customer": {
    "name": "ACME GmbH", "email": "Buchhaltung@acme.de",
    "street": "Hauptstraße 5", "zip": "60311", "city": "Frankfurt",
    "tax_number": ""
  },
  "items": [
    {"description": "Konzeption und Design", "quantity": 40, "unit": "Std.", "unit_price": 95.00, "total": 3800.00},
    {"description": "Umsetzung Templates", "quantity": 10, "unit": "Std.", "unit_price": 85.00, "total": 850.00}
  ],
  "subtotal": 4650.00,
  "vat_rate": 19,
  "vat_amount": 883.50,
  "total": 5533.50,
  "service_start": "", "service_end": "", "location": "", "notes": ""
}`

func TestParseModelOutput(t *testing.T) {
	doc, err := parseModelOutput(goodOutput)
	require.NoError(t, err)

	assert.Equal(t, domain.DocumentTypeInvoice, doc.Type)
	assert.Equal(t, domain.ConfidenceAIAssisted, doc.Confidence)
	assert.Equal(t, domain.TierAIAssisted, doc.Tier)

	f := doc.Fields
	assert.Equal(t, "RE-000123", f.DocumentNumber)
	require.NotNil(t, f.IssueDate)
	assert.Equal(t, time.Date(2025, 11, 24, 0, 0, 0, 0, time.UTC), *f.IssueDate)
	assert.Equal(t, "buchhaltung@acme.de", f.Customer.Email)
	require.Len(t, f.Items, 2)
	assert.True(t, decimal.NewFromFloat(5533.50).Equal(f.Total))
	assert.False(t, f.IsProject)
}

func TestParseModelOutput_CodeFenced(t *testing.T) {
	doc, err := parseModelOutput("```json\n" + goodOutput + "\n```")
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentTypeInvoice, doc.Type)
}

func TestParseModelOutput_MissingItemTotal(t *testing.T) {
	out := `{
  "document_type": "quote",
  "document_number": "AN-000045",
  "issue_date": "2025-11-10",
  "due_date": "2025-12-10",
  "customer": {"name": "Beispiel AG"},
  "items": [{"description": "Beratung", "quantity": 8, "unit_price": 120.00}],
  "subtotal": 960.00, "vat_rate": 19, "vat_amount": 182.40, "total": 0
}`
	doc, err := parseModelOutput(out)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromFloat(960).Equal(doc.Fields.Items[0].Total))
	// Grand total falls back to subtotal plus VAT when the model omits it.
	assert.True(t, decimal.NewFromFloat(1142.40).Equal(doc.Fields.Total))
}

func TestParseModelOutput_Unrecognized(t *testing.T) {
	doc, err := parseModelOutput(`{"document_type": "receipt"}`)
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentTypeUnrecognized, doc.Type)
	assert.Equal(t, domain.ConfidenceFailed, doc.Confidence)
}

func TestParseModelOutput_Malformed(t *testing.T) {
	_, err := parseModelOutput("the document appears to be an invoice")
	assert.Error(t, err)
}

func TestParseModelOutput_NoItems(t *testing.T) {
	_, err := parseModelOutput(`{"document_type": "invoice", "items": []}`)
	assert.Error(t, err)
}
