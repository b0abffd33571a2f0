package bankimport

import (
	"regexp"
	"strings"

	"belegwerk/internal/domain"
	"belegwerk/internal/locale"
)

// SparkasseFormat handles Sparkasse account statements.
//
// Rows carry a booking date, a value date, a booking-type title, and an
// amount with a trailing sign (Soll/Haben convention):
//
//	01.09.2025 01.09.2025 LASTSCHRIFT 119,00-
//	ACME GmbH
//	Rechnung 4711 inkl. 19% USt
//	10.09.2025 10.09.2025 GUTSCHR. UEBERWEISUNG 2.500,00+
//	Kunde Beispiel AG
//
// The first line after the row is the correspondent; further lines up to the
// next row are the wrapped description. Wrapping continues across page
// boundaries.
type SparkasseFormat struct{}

func (f *SparkasseFormat) Name() string { return "Sparkasse" }

func (f *SparkasseFormat) Detect(text string) bool {
	return strings.Contains(text, "Sparkasse")
}

var sparkasseRowPattern = regexp.MustCompile(
	`^(\d{2}\.\d{2}\.\d{4})\s+(\d{2}\.\d{2}\.\d{4})\s+(.+?)\s+([\d.]+,\d{2})([+-])$`)

func (f *SparkasseFormat) Extract(pages []string) ([]domain.ExtractedTransaction, error) {
	var txns []domain.ExtractedTransaction
	var current *domain.ExtractedTransaction
	correspondentNext := false

	flush := func() {
		if current != nil {
			current.TypeHint = typeHintFrom(current.Title + " " + current.Description)
			txns = append(txns, *current)
			current = nil
		}
	}

	// One flat walk over all lines: the active transaction survives page
	// boundaries so wrapped descriptions are not cut at the page break.
	for _, page := range pages {
		for _, raw := range strings.Split(page, "\n") {
			line := strings.TrimSpace(raw)

			if m := sparkasseRowPattern.FindStringSubmatch(line); m != nil {
				flush()

				bookedOn, err := locale.ParseDate(m[1])
				if err != nil {
					continue
				}
				amount, err := locale.ParseAmount(m[4])
				if err != nil {
					continue
				}
				if m[5] == "-" {
					amount = amount.Neg()
				}

				current = &domain.ExtractedTransaction{
					BookedOn: bookedOn,
					Title:    strings.TrimSpace(m[3]),
					Amount:   amount,
					Currency: "EUR",
				}
				correspondentNext = true
				continue
			}

			if current == nil || isNoise(line) {
				continue
			}
			if correspondentNext {
				current.Correspondent = line
				correspondentNext = false
				continue
			}
			if current.Description == "" {
				current.Description = line
			} else {
				current.Description += " " + line
			}
		}
	}
	flush()

	return txns, nil
}
