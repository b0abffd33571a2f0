package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"belegwerk/internal/domain"
)

func TestBuildTransactions_SplitsGrossByTypeHint(t *testing.T) {
	booked := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)
	txns := buildTransactions([]domain.ExtractedTransaction{
		{
			BookedOn:      booked,
			Correspondent: "Hosting GmbH",
			TypeHint:      "19% Umsatzsteuer",
			Amount:        decimal.RequireFromString("-119.00"),
			Currency:      "EUR",
		},
		{
			Correspondent: "AWS EMEA",
			TypeHint:      "Reverse Charge",
			Amount:        decimal.RequireFromString("-50.00"),
			Currency:      "EUR",
		},
	})
	require.Len(t, txns, 2)

	assert.True(t, decimal.RequireFromString("-100.00").Equal(txns[0].NetAmount))
	assert.True(t, decimal.RequireFromString("-19.00").Equal(txns[0].VATAmount))
	assert.False(t, txns[0].IsValidated)

	// Reverse-charge rows carry no German VAT.
	assert.True(t, txns[1].NetAmount.Equal(txns[1].Amount))
	assert.True(t, txns[1].VATAmount.IsZero())
}
