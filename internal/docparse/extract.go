package docparse

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"belegwerk/internal/domain"
	"belegwerk/internal/locale"
)

var (
	docNumberPattern = regexp.MustCompile(`(?i)(?:rechnungs?|angebots?)\s*-?\s*(?:nummer|nr\.?)\s*[:\s]\s*([A-Za-z]{0,3}-?\d[\d\-/]*)`)
	docNumberInline  = regexp.MustCompile(`\b((?:RE|AN)-\d+)\b`)

	datePattern         = `(\d{1,2}\.\d{1,2}\.\d{4}|\d{4}-\d{2}-\d{2})`
	issueDatePattern    = regexp.MustCompile(`(?i)(?:rechnungs|angebots)?datum\s*[:\s]\s*` + datePattern)
	issueDateVomPattern = regexp.MustCompile(`(?i)\bvom\s+` + datePattern)
	dueDatePattern      = regexp.MustCompile(`(?i)(?:fällig(?:keitsdatum)?(?:\s+bis)?|zahlbar\s+bis|zahlungsziel)\s*[:\s]\s*` + datePattern)
	validUntilPattern   = regexp.MustCompile(`(?i)gültig\s+bis\s*[:\s]?\s*` + datePattern)

	servicePeriodPattern = regexp.MustCompile(`(?i)leistungszeitraum\s*[:\s]\s*` + datePattern + `\s*(?:-|–|bis)\s*` + datePattern)
	locationPattern      = regexp.MustCompile(`(?im)^.*leistungsort\s*[:\s]\s*(.+)$`)
)

// reconcileTolerance is the maximum accepted drift between the printed grand
// total and subtotal+VAT before the document is flagged for review.
var reconcileTolerance = decimal.NewFromFloat(0.01)

// Extract runs classification and field extraction over the text of one
// document. It never fails: unusable input comes back as an unrecognized or
// zero-item document with ConfidenceFailed, which the pipeline escalates to
// the vision tier.
func Extract(text string) domain.ParsedDocument {
	doc := domain.ParsedDocument{
		Type:    Classify(text),
		RawText: text,
		Tier:    domain.TierDeterministic,
	}

	if doc.Type == domain.DocumentTypeUnrecognized {
		doc.Confidence = domain.ConfidenceFailed
		doc.ReviewHints = append(doc.ReviewHints, "document type could not be determined")
		return doc
	}

	lines := normalizeLines(text)
	f := &doc.Fields

	extractHeader(text, doc.Type, f)
	f.Customer = extractCustomer(lines, doc.Type)

	if headerIdx, layout := findItemHeader(lines); headerIdx >= 0 {
		f.Items = extractItems(lines, headerIdx, layout)
	}

	totals := extractTotals(lines)
	applyTotals(&doc, totals)

	if len(f.Items) == 0 {
		doc.Confidence = domain.ConfidenceFailed
		doc.ReviewHints = append(doc.ReviewHints, "no line items found")
		return doc
	}

	doc.Confidence = domain.ConfidenceDeterministic
	return doc
}

func extractHeader(text string, docType domain.DocumentType, f *domain.ParsedFields) {
	if m := docNumberPattern.FindStringSubmatch(text); m != nil {
		f.DocumentNumber = m[1]
	} else if m := docNumberInline.FindStringSubmatch(text); m != nil {
		f.DocumentNumber = m[1]
	}

	if m := issueDatePattern.FindStringSubmatch(text); m != nil {
		f.IssueDate = parseDateRef(m[1])
	} else if m := issueDateVomPattern.FindStringSubmatch(text); m != nil {
		f.IssueDate = parseDateRef(m[1])
	}

	if docType == domain.DocumentTypeQuote {
		if m := validUntilPattern.FindStringSubmatch(text); m != nil {
			f.DueDate = parseDateRef(m[1])
		}
	} else {
		if m := dueDatePattern.FindStringSubmatch(text); m != nil {
			f.DueDate = parseDateRef(m[1])
		}
	}

	if m := servicePeriodPattern.FindStringSubmatch(text); m != nil {
		f.ServiceStart = parseDateRef(m[1])
		f.ServiceEnd = parseDateRef(m[2])
	}
	if m := locationPattern.FindStringSubmatch(text); m != nil {
		f.Location = strings.TrimSpace(m[1])
	}
	f.IsProject = f.ServiceStart != nil && f.ServiceEnd != nil && f.Location != ""
}

// applyTotals fills the totals block. Printed values are authoritative: when
// the explicit grand total disagrees with subtotal+VAT beyond tolerance the
// document keeps the printed figures and is flagged for review instead,
// since silently recomputing could mask a real accounting discrepancy.
func applyTotals(doc *domain.ParsedDocument, totals parsedTotals) {
	f := &doc.Fields

	if totals.haveSubtotal {
		f.Subtotal = totals.subtotal
	} else {
		for _, item := range f.Items {
			f.Subtotal = f.Subtotal.Add(item.Total)
		}
		if len(f.Items) > 0 {
			doc.ReviewHints = append(doc.ReviewHints, "subtotal not printed, computed from line items")
		}
	}
	if totals.haveVAT {
		f.VATRate = totals.vatRate
		f.VATAmount = totals.vatAmount
	}
	if totals.haveTotal {
		f.Total = totals.total
	} else {
		f.Total = f.Subtotal.Add(f.VATAmount)
	}

	if totals.haveTotal && totals.haveVAT {
		diff := f.Subtotal.Add(f.VATAmount).Sub(f.Total).Abs()
		if diff.GreaterThan(reconcileTolerance) {
			doc.ReviewHints = append(doc.ReviewHints,
				"printed total does not match subtotal plus VAT; printed values kept")
		}
	}
}

func parseDateRef(s string) *time.Time {
	t, err := locale.ParseDate(s)
	if err != nil {
		return nil
	}
	return &t
}
