package locale

import (
	"fmt"
	"strings"
	"time"

	"belegwerk/internal/domain"
)

// dateLayouts are tried in order. German day-first forms come before ISO.
var dateLayouts = []string{
	"02.01.2006",
	"2.1.2006",
	"02.01.06",
	"2006-01-02",
	"02. January 2006",
	"2. January 2006",
}

// germanMonths maps German month names onto their English layout equivalents
// so "24. November 2025" parses with the stdlib layouts above.
var germanMonths = strings.NewReplacer(
	"Januar", "January",
	"Februar", "February",
	"März", "March",
	"Mai", "May",
	"Juni", "June",
	"Juli", "July",
	"Oktober", "October",
	"Dezember", "December",
)

// ParseDate converts "DD.MM.YYYY", ISO, and written German date forms into a
// calendar date (UTC midnight).
func ParseDate(text string) (time.Time, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", text, domain.ErrUnparseableValue)
	}
	s = germanMonths.Replace(s)

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing date %q: %w", text, domain.ErrUnparseableValue)
}
