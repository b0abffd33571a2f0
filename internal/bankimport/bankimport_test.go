package bankimport

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"belegwerk/internal/domain"
)

const sparkassePage1 = `Sparkasse Musterstadt
Kontoauszug Nr. 9/2025
01.09.2025 01.09.2025 LASTSCHRIFT 119,00-
ACME GmbH
Rechnung 4711 inkl. 19% USt
10.09.2025 10.09.2025 GUTSCHR. UEBERWEISUNG 2.500,00+
Kunde Beispiel AG
Projekt Website, Abschlagszahlung`

const sparkassePage2 = `Sparkasse Musterstadt Seite 2
zweite Rate laut Angebot
15.09.2025 15.09.2025 ENTGELTABSCHLUSS 8,90-
Sparkassen-Service
Kontoführung`

func TestSparkasse_Extract(t *testing.T) {
	f := &SparkasseFormat{}
	require.True(t, f.Detect(sparkassePage1))

	txns, err := f.Extract([]string{sparkassePage1, sparkassePage2})
	require.NoError(t, err)
	require.Len(t, txns, 3)

	first := txns[0]
	assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), first.BookedOn)
	assert.Equal(t, "LASTSCHRIFT", first.Title)
	assert.Equal(t, "ACME GmbH", first.Correspondent)
	assert.Equal(t, "Rechnung 4711 inkl. 19% USt", first.Description)
	assert.Equal(t, "19%", first.TypeHint)
	assert.True(t, decimal.NewFromFloat(-119).Equal(first.Amount), "amount: %s", first.Amount)
	assert.Equal(t, "EUR", first.Currency)

	// The second transaction's description wraps across the page boundary.
	second := txns[1]
	assert.Equal(t, "Kunde Beispiel AG", second.Correspondent)
	assert.Equal(t, "Projekt Website, Abschlagszahlung zweite Rate laut Angebot", second.Description)
	assert.True(t, decimal.NewFromFloat(2500).Equal(second.Amount))

	third := txns[2]
	assert.True(t, decimal.NewFromFloat(-8.90).Equal(third.Amount))
	assert.Equal(t, "", third.TypeHint)
}

func TestN26_Extract(t *testing.T) {
	page := `N26 Bank SE
Kontoauszug September 2025
2025-09-10 ACME GmbH -119,00€
Überweisung · Rechnung #4711 · 19% MwSt
2025-09-12 Stadtwerke Musterstadt -86,50€
Lastschrift · Abschlag Strom`

	f := &N26Format{}
	require.True(t, f.Detect(page))

	txns, err := f.Extract([]string{page})
	require.NoError(t, err)
	require.Len(t, txns, 2)

	first := txns[0]
	assert.Equal(t, "ACME GmbH", first.Correspondent)
	assert.Equal(t, "Überweisung", first.Title)
	assert.Equal(t, "Rechnung #4711 · 19% MwSt", first.Description)
	assert.Equal(t, "19%", first.TypeHint)
	assert.True(t, decimal.NewFromFloat(-119).Equal(first.Amount))

	second := txns[1]
	assert.Equal(t, "Lastschrift", second.Title)
	assert.Equal(t, "Abschlag Strom", second.Description)
}

func TestDKB_Extract(t *testing.T) {
	page := "Deutsche Kreditbank AG\n" +
		"Buchungstag\tAuftraggeber\tVerwendungszweck\tBetrag\n" +
		"10.09.2025\tACME GmbH\tRechnung #4711 19%\t-119,00\n" +
		"\tFortsetzung Verwendungszweck\n" +
		"11.09.2025\tHosting Provider\tReverse Charge Leistung\t-25,00\n"

	f := &DKBFormat{}
	require.True(t, f.Detect(page))

	txns, err := f.Extract([]string{page})
	require.NoError(t, err)
	require.Len(t, txns, 2)

	assert.Equal(t, "ACME GmbH", txns[0].Correspondent)
	assert.Equal(t, "Rechnung #4711 19%", txns[0].Title)
	assert.Equal(t, "Fortsetzung Verwendungszweck", txns[0].Description)
	assert.Equal(t, "19%", txns[0].TypeHint)

	assert.Equal(t, "Reverse Charge", txns[1].TypeHint)
	assert.True(t, decimal.NewFromFloat(-25).Equal(txns[1].Amount))
}

func TestRegistry_PriorityOrder(t *testing.T) {
	reg := DefaultRegistry()

	f := reg.Detect([]string{sparkassePage1})
	require.NotNil(t, f)
	assert.Equal(t, "Sparkasse", f.Name())
}

func TestRegistry_UnrecognizedFormat(t *testing.T) {
	pages := []string{"Some Other Bank plc\n01/09/2025 CARD PAYMENT 12.00"}

	txns, conf, err := DefaultRegistry().Extract(pages)
	require.NoError(t, err, "unrecognized input must not be an error")
	assert.Empty(t, txns)
	assert.Equal(t, domain.ConfidenceFailed, conf)
}

func TestRegistry_Extract_Deterministic(t *testing.T) {
	txns, conf, err := DefaultRegistry().Extract([]string{sparkassePage1})
	require.NoError(t, err)
	assert.Len(t, txns, 2)
	assert.Equal(t, domain.ConfidenceDeterministic, conf)
}

// Re-extraction of the same statement must be field-for-field identical.
func TestExtract_Deterministic_Idempotent(t *testing.T) {
	pages := []string{sparkassePage1, sparkassePage2}
	first, err := (&SparkasseFormat{}).Extract(pages)
	require.NoError(t, err)
	second, err := (&SparkasseFormat{}).Extract(pages)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
