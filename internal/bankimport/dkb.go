package bankimport

import (
	"regexp"
	"strings"

	"belegwerk/internal/domain"
	"belegwerk/internal/locale"
)

// DKBFormat handles DKB (Deutsche Kreditbank) statements. The text reader
// renders their table columns as tab-separated fields:
//
//	10.09.2025 <tab> ACME GmbH <tab> Rechnung #4711 19% <tab> -119,00
//	<tab> Fortsetzung des Verwendungszwecks
//
// Continuation rows have no date in the first column and extend the previous
// row's description, including across page breaks.
type DKBFormat struct{}

func (f *DKBFormat) Name() string { return "DKB" }

func (f *DKBFormat) Detect(text string) bool {
	return strings.Contains(text, "Deutsche Kreditbank") || strings.Contains(text, "DKB AG")
}

var dkbDatePattern = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`)

func (f *DKBFormat) Extract(pages []string) ([]domain.ExtractedTransaction, error) {
	var txns []domain.ExtractedTransaction
	var current *domain.ExtractedTransaction

	flush := func() {
		if current != nil {
			current.TypeHint = typeHintFrom(current.Title + " " + current.Description)
			txns = append(txns, *current)
			current = nil
		}
	}

	for _, page := range pages {
		for _, raw := range strings.Split(page, "\n") {
			if isNoise(raw) {
				continue
			}
			cols := strings.Split(raw, "\t")
			for i := range cols {
				cols[i] = strings.TrimSpace(cols[i])
			}

			if len(cols) >= 4 && dkbDatePattern.MatchString(cols[0]) {
				flush()

				bookedOn, err := locale.ParseDate(cols[0])
				if err != nil {
					continue
				}
				amount, err := locale.ParseAmount(cols[len(cols)-1])
				if err != nil {
					continue
				}

				current = &domain.ExtractedTransaction{
					BookedOn:      bookedOn,
					Correspondent: cols[1],
					Title:         strings.Join(cols[2:len(cols)-1], " "),
					Amount:        amount,
					Currency:      "EUR",
				}
				continue
			}

			// Continuation row: description wraps under the title column.
			if current != nil {
				text := strings.TrimSpace(strings.Join(cols, " "))
				if text == "" {
					continue
				}
				if current.Description == "" {
					current.Description = text
				} else {
					current.Description += " " + text
				}
			}
		}
	}
	flush()

	return txns, nil
}
