package csvexport

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"belegwerk/internal/domain"
)

func readAll(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	r := csv.NewReader(buf)
	r.Comma = ';'
	rows, err := r.ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteTransactions(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteTransactionHeader())
	require.NoError(t, w.WriteTransactions([]domain.BankTransaction{
		{
			BookedOn:      time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC),
			Correspondent: "Hosting GmbH",
			Title:         "Rechnung 4711",
			TypeHint:      "19% Umsatzsteuer",
			Amount:        decimal.RequireFromString("-119.00"),
			Currency:      "EUR",
			NetAmount:     decimal.RequireFromString("-100.00"),
			VATAmount:     decimal.RequireFromString("-19.00"),
			IsValidated:   true,
		},
	}))
	w.Flush()
	require.NoError(t, w.Error())

	rows := readAll(t, &buf)
	require.Len(t, rows, 2)
	assert.Equal(t, "Buchungsdatum", rows[0][0])
	assert.Equal(t, "03.11.2025", rows[1][0])
	assert.Equal(t, "Hosting GmbH", rows[1][1])
	assert.Equal(t, "-119,00", rows[1][5])
	assert.Equal(t, "-100,00", rows[1][7])
	assert.Equal(t, "Ja", rows[1][9])
}

func TestWriteInvoices(t *testing.T) {
	customerID := uuid.New()
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteInvoiceHeader())
	require.NoError(t, w.WriteInvoices([]domain.Invoice{
		{
			DocumentNumber: 42,
			CustomerID:     customerID,
			IssueDate:      time.Date(2025, 11, 24, 0, 0, 0, 0, time.UTC),
			DueDate:        time.Date(2025, 12, 8, 0, 0, 0, 0, time.UTC),
			Items:          domain.LineItems{{Description: "Beratung"}},
			Subtotal:       decimal.RequireFromString("4650.00"),
			VATRate:        decimal.NewFromInt(19),
			VATAmount:      decimal.RequireFromString("883.50"),
			Total:          decimal.RequireFromString("5533.50"),
		},
	}, map[string]string{customerID.String(): "ACME GmbH"}))
	w.Flush()
	require.NoError(t, w.Error())

	rows := readAll(t, &buf)
	require.Len(t, rows, 2)
	assert.Equal(t, "RE-000042", rows[1][0])
	assert.Equal(t, "24.11.2025", rows[1][1])
	assert.Equal(t, "ACME GmbH", rows[1][3])
	assert.Equal(t, "4.650,00", rows[1][4])
	assert.Equal(t, "5.533,50", rows[1][7])
	assert.Equal(t, "1", rows[1][8])
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "Kontoauszug_November", SanitizeFilename("Kontoauszug November!"))
	assert.Equal(t, "a_b", SanitizeFilename("a // b"))
}
