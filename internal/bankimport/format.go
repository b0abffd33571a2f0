// Package bankimport locates transaction tables in bank statement text and
// emits ordered transaction lists. Each supported bank contributes one Format;
// the registry tries them in a fixed priority order and uses the first whose
// detector matches the statement header.
package bankimport

import (
	"strings"

	"belegwerk/internal/domain"
)

// Format is one bank's detection and extraction rule set.
type Format interface {
	// Name returns the human-readable bank name.
	Name() string
	// Detect reports whether this format recognizes the statement header.
	Detect(text string) bool
	// Extract walks the recognized transaction table and emits one
	// transaction per row, in statement order.
	Extract(pages []string) ([]domain.ExtractedTransaction, error)
}

// Registry holds bank formats in priority order.
type Registry struct {
	formats []Format
}

// NewRegistry creates a registry with the given formats. Order is priority:
// the first matching detector wins for the whole statement.
func NewRegistry(formats ...Format) *Registry {
	return &Registry{formats: formats}
}

// DefaultRegistry returns the registry with all built-in bank formats.
func DefaultRegistry() *Registry {
	return NewRegistry(
		&SparkasseFormat{},
		&N26Format{},
		&DKBFormat{},
	)
}

// Detect returns the first format whose detector matches, or nil.
func (r *Registry) Detect(pages []string) Format {
	combined := strings.Join(pages, "\n")
	for _, f := range r.formats {
		if f.Detect(combined) {
			return f
		}
	}
	return nil
}

// Extract runs detection and extraction. An unrecognized format yields an
// empty list with ConfidenceFailed; it is never an error. Errors are reserved
// for truly unreadable input, which the caller handles upstream.
func (r *Registry) Extract(pages []string) ([]domain.ExtractedTransaction, domain.Confidence, error) {
	f := r.Detect(pages)
	if f == nil {
		return nil, domain.ConfidenceFailed, nil
	}
	txns, err := f.Extract(pages)
	if err != nil {
		return nil, domain.ConfidenceFailed, err
	}
	if len(txns) == 0 {
		return nil, domain.ConfidenceFailed, nil
	}
	return txns, domain.ConfidenceDeterministic, nil
}

// typeHintFrom scans a transaction's text for a VAT classification token.
// The token is free text consumed later by the net/VAT decomposition.
func typeHintFrom(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "reverse charge"):
		return "Reverse Charge"
	case strings.Contains(text, "19%") || strings.Contains(text, "19 %"):
		return "19%"
	case strings.Contains(text, "7%") || strings.Contains(text, "7 %"):
		return "7%"
	case strings.Contains(text, "0%") || strings.Contains(text, "0 %"):
		return "0%"
	default:
		return ""
	}
}

// isNoise filters page furniture that must not end up in descriptions.
func isNoise(line string) bool {
	lower := strings.ToLower(strings.TrimSpace(line))
	if lower == "" {
		return true
	}
	for _, marker := range []string{
		"seite ", "blatt ", "kontoauszug", "übertrag", "anfangssaldo",
		"endsaldo", "alter saldo", "neuer saldo", "bic:", "iban:",
	} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
