package bankimport

import (
	"regexp"
	"strings"

	"belegwerk/internal/domain"
	"belegwerk/internal/locale"
)

// N26Format handles N26 statements, which use ISO dates and a signed amount
// with a euro suffix on the row line:
//
//	2025-09-10 ACME GmbH -119,00€
//	Überweisung · Rechnung #4711 · 19% MwSt
//
// The correspondent sits on the row itself; the following lines are the
// description, joined with the statement's "·" separators intact.
type N26Format struct{}

func (f *N26Format) Name() string { return "N26" }

func (f *N26Format) Detect(text string) bool {
	return strings.Contains(text, "N26 Bank") || strings.Contains(text, "n26.com")
}

var n26RowPattern = regexp.MustCompile(
	`^(\d{4}-\d{2}-\d{2})\s+(.+?)\s+(-?[\d.]+,\d{2})\s*€$`)

func (f *N26Format) Extract(pages []string) ([]domain.ExtractedTransaction, error) {
	var txns []domain.ExtractedTransaction
	var current *domain.ExtractedTransaction

	flush := func() {
		if current != nil {
			// First description segment is the booking type ("Überweisung",
			// "Lastschrift"); it doubles as the transaction title.
			if current.Title == "" && current.Description != "" {
				parts := strings.SplitN(current.Description, "·", 2)
				current.Title = strings.TrimSpace(parts[0])
				if len(parts) == 2 {
					current.Description = strings.TrimSpace(parts[1])
				} else {
					current.Description = ""
				}
			}
			current.TypeHint = typeHintFrom(current.Title + " " + current.Description)
			txns = append(txns, *current)
			current = nil
		}
	}

	for _, page := range pages {
		for _, raw := range strings.Split(page, "\n") {
			line := strings.TrimSpace(raw)

			if m := n26RowPattern.FindStringSubmatch(line); m != nil {
				flush()

				bookedOn, err := locale.ParseDate(m[1])
				if err != nil {
					continue
				}
				amount, err := locale.ParseAmount(m[3])
				if err != nil {
					continue
				}

				current = &domain.ExtractedTransaction{
					BookedOn:      bookedOn,
					Correspondent: strings.TrimSpace(m[2]),
					Amount:        amount,
					Currency:      "EUR",
				}
				continue
			}

			if current == nil || isNoise(line) {
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
