// Package docparse classifies invoice/quote PDFs and extracts their header
// fields, customer block, line-item table, and totals using regex- and
// layout-driven rules. It is the deterministic tier of the extraction
// pipeline; low-confidence results are escalated by the caller.
package docparse

import (
	"regexp"
	"strings"

	"belegwerk/internal/domain"
)

var (
	invoiceWordPattern  = regexp.MustCompile(`(?i)\brechnung\b`)
	quoteWordPattern    = regexp.MustCompile(`(?i)\bangebot\b`)
	dueAnchorPattern    = regexp.MustCompile(`(?i)fällig|zahlbar\s+bis|zahlungsziel`)
	validAnchorPattern  = regexp.MustCompile(`(?i)gültig\s+bis|bindefrist`)
	invoiceNumberAnchor = regexp.MustCompile(`(?i)rechnungs?\s*-?\s*(nummer|nr)|RE-\d+`)
	quoteNumberAnchor   = regexp.MustCompile(`(?i)angebots?\s*-?\s*(nummer|nr)|AN-\d+`)
)

// Classify decides invoice vs quote vs unrecognized from keyword anchors and
// the document-number pattern. Unrecognized covers both "no anchors at all"
// and an ambiguous tie; both escalate to the vision fallback.
func Classify(text string) domain.DocumentType {
	invoiceScore, quoteScore := 0, 0

	if invoiceWordPattern.MatchString(text) {
		invoiceScore += 2
	}
	if dueAnchorPattern.MatchString(text) {
		invoiceScore++
	}
	if invoiceNumberAnchor.MatchString(text) {
		invoiceScore++
	}

	if quoteWordPattern.MatchString(text) {
		quoteScore += 2
	}
	if validAnchorPattern.MatchString(text) {
		quoteScore++
	}
	if quoteNumberAnchor.MatchString(text) {
		quoteScore++
	}

	switch {
	case invoiceScore >= 2 && invoiceScore > quoteScore:
		return domain.DocumentTypeInvoice
	case quoteScore >= 2 && quoteScore > invoiceScore:
		return domain.DocumentTypeQuote
	default:
		return domain.DocumentTypeUnrecognized
	}
}

// anchorLine returns the index of the first line carrying the document-type
// anchor word; the customer block search is bounded by it.
func anchorLine(lines []string, docType domain.DocumentType) int {
	pattern := invoiceWordPattern
	if docType == domain.DocumentTypeQuote {
		pattern = quoteWordPattern
	}
	for i, line := range lines {
		if pattern.MatchString(line) {
			return i
		}
	}
	return len(lines)
}

func normalizeLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return lines
}
