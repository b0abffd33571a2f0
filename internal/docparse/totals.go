package docparse

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"belegwerk/internal/locale"
)

var (
	totalsLabelPattern = regexp.MustCompile(`(?i)^(zwischensumme|nettobetrag|summe\s+netto|umsatzsteuer|mehrwertsteuer|mwst|gesamtbetrag|rechnungsbetrag|bruttobetrag|gesamtsumme|angebotssumme|endbetrag)`)

	subtotalPattern = regexp.MustCompile(`(?i)^(?:zwischensumme|nettobetrag|summe\s+netto)\b[^\d-]*(-?[\d.]+,\d{2})`)
	vatPattern      = regexp.MustCompile(`(?i)^(?:umsatzsteuer|mehrwertsteuer|mwst\.?|ust\.?)\s*\(?(\d{1,2})(?:,\d+)?\s*%\)?[^\d-]*(-?[\d.]+,\d{2})`)
	totalPattern    = regexp.MustCompile(`(?i)^(?:gesamtbetrag|rechnungsbetrag|bruttobetrag|gesamtsumme|angebotssumme|endbetrag)\b[^\d-]*(-?[\d.]+,\d{2})`)
)

// parsedTotals is the totals block as it appears on the document.
type parsedTotals struct {
	subtotal  decimal.Decimal
	vatRate   decimal.Decimal
	vatAmount decimal.Decimal
	total     decimal.Decimal

	haveSubtotal bool
	haveVAT      bool
	haveTotal    bool
}

// extractTotals scans for the subtotal, VAT, and grand-total lines. Values
// are returned exactly as printed; reconciliation against the line items
// happens in the caller and never overwrites them.
func extractTotals(lines []string) parsedTotals {
	var t parsedTotals

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if m := subtotalPattern.FindStringSubmatch(line); m != nil && !t.haveSubtotal {
			if v, err := locale.ParseAmount(m[1]); err == nil {
				t.subtotal = v
				t.haveSubtotal = true
			}
			continue
		}
		if m := vatPattern.FindStringSubmatch(line); m != nil && !t.haveVAT {
			rate, rateErr := decimal.NewFromString(m[1])
			amount, amtErr := locale.ParseAmount(m[2])
			if rateErr == nil && amtErr == nil {
				t.vatRate = rate
				t.vatAmount = amount
				t.haveVAT = true
			}
			continue
		}
		if m := totalPattern.FindStringSubmatch(line); m != nil && !t.haveTotal {
			if v, err := locale.ParseAmount(m[1]); err == nil {
				t.total = v
				t.haveTotal = true
			}
		}
	}
	return t
}
