// Package locale normalizes German-locale formatted amounts and dates into
// canonical values. All parse functions fail with domain.ErrUnparseableValue
// rather than guessing; callers decide whether an unparseable field is fatal
// or is left blank for human completion.
package locale

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"belegwerk/internal/domain"
)

var (
	// 1.234,56 or 234,56 — German convention, "." thousands, "," decimal
	germanAmountPattern = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})*(,\d{1,2})?$|^-?\d+,\d{1,2}$`)
	// 1,234.56 or 1234.56 — plain/anglo decimal form
	plainAmountPattern = regexp.MustCompile(`^-?\d{1,3}(,\d{3})*(\.\d{1,2})?$|^-?\d+(\.\d{1,2})?$`)
)

// ParseAmount converts a locale-formatted amount string into a decimal.
// It handles the German convention ("1.234,56") as well as unambiguous plain
// decimal forms ("1234.56", "1,234.56"). Currency symbols and surrounding
// whitespace are stripped.
func ParseAmount(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	for _, sym := range []string{"€", "EUR", " "} {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.TrimSpace(s)
	// Trailing minus ("119,00-") appears on some statements.
	if strings.HasSuffix(s, "-") {
		s = "-" + strings.TrimSuffix(s, "-")
	}
	if s == "" {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", text, domain.ErrUnparseableValue)
	}

	switch {
	case germanAmountPattern.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case plainAmountPattern.MatchString(s):
		s = strings.ReplaceAll(s, ",", "")
	default:
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", text, domain.ErrUnparseableValue)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", text, domain.ErrUnparseableValue)
	}
	return d, nil
}

// FormatAmount renders a decimal in German convention ("1.234,56") for
// export surfaces.
func FormatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	parts := strings.SplitN(s, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var grouped []string
	for len(intPart) > 3 {
		grouped = append([]string{intPart[len(intPart)-3:]}, grouped...)
		intPart = intPart[:len(intPart)-3]
	}
	grouped = append([]string{intPart}, grouped...)

	out := strings.Join(grouped, ".") + "," + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
