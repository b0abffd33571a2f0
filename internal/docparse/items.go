package docparse

import (
	"regexp"
	"strings"

	"belegwerk/internal/domain"
	"belegwerk/internal/locale"
)

// itemColumn identifies a line-item table column by its header text.
type itemColumn int

const (
	colUnknown itemColumn = iota
	colPosition
	colDescription
	colQuantity
	colUnit
	colUnitPrice
	colTotal
)

var cellSplitPattern = regexp.MustCompile(`\t|\s{2,}`)

func splitCells(line string) []string {
	var cells []string
	for _, c := range cellSplitPattern.Split(line, -1) {
		c = strings.TrimSpace(c)
		if c != "" {
			cells = append(cells, c)
		}
	}
	return cells
}

func classifyHeaderCell(cell string) itemColumn {
	lower := strings.ToLower(cell)
	switch {
	case strings.Contains(lower, "pos"):
		return colPosition
	case strings.Contains(lower, "beschreibung"),
		strings.Contains(lower, "bezeichnung"),
		strings.Contains(lower, "leistung"),
		strings.Contains(lower, "artikel"):
		return colDescription
	case strings.Contains(lower, "menge"), strings.Contains(lower, "anzahl"):
		return colQuantity
	case strings.Contains(lower, "einheit"):
		return colUnit
	case strings.Contains(lower, "einzelpreis"),
		strings.Contains(lower, "einzel"),
		lower == "preis", strings.Contains(lower, "preis/"):
		return colUnitPrice
	case strings.Contains(lower, "gesamt"),
		strings.Contains(lower, "summe"),
		strings.Contains(lower, "betrag"):
		return colTotal
	default:
		return colUnknown
	}
}

// findItemHeader locates the line-item table header row: the first line whose
// cells map onto at least a description, a quantity, and a price column.
// Returns the line index and the column layout, or -1 when no table exists.
func findItemHeader(lines []string) (int, []itemColumn) {
	for i, raw := range lines {
		cells := splitCells(raw)
		if len(cells) < 3 {
			continue
		}
		layout := make([]itemColumn, len(cells))
		var hasDesc, hasQty, hasPrice bool
		for j, c := range cells {
			layout[j] = classifyHeaderCell(c)
			switch layout[j] {
			case colDescription:
				hasDesc = true
			case colQuantity:
				hasQty = true
			case colUnitPrice, colTotal:
				hasPrice = true
			}
		}
		if hasDesc && hasQty && hasPrice {
			return i, layout
		}
	}
	return -1, nil
}

// extractItems walks the rows below the table header, mapping cells through
// the detected column layout. Column reordering and a missing unit column are
// tolerated; rows that yield no parseable quantity extend the previous item's
// description (wrapped rows).
func extractItems(lines []string, headerIdx int, layout []itemColumn) []domain.LineItem {
	var items []domain.LineItem

	for i := headerIdx + 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			if len(items) > 0 {
				break
			}
			continue
		}
		if totalsLabelPattern.MatchString(line) {
			break
		}

		cells := splitCells(line)
		item, ok := mapRow(cells, layout)
		if !ok {
			// Wrapped description row.
			if len(items) > 0 {
				items[len(items)-1].Description += " " + line
			}
			continue
		}
		items = append(items, item)
	}
	return items
}

func mapRow(cells []string, layout []itemColumn) (domain.LineItem, bool) {
	var item domain.LineItem
	var haveQty, haveUnitPrice, haveTotal bool

	// Rows may drop trailing empty columns; align from the left.
	for j, cell := range cells {
		if j >= len(layout) {
			break
		}
		switch layout[j] {
		case colDescription:
			item.Description = cell
		case colQuantity:
			if qty, err := locale.ParseAmount(cell); err == nil && qty.IsPositive() {
				item.Quantity = qty
				haveQty = true
			}
		case colUnit:
			item.Unit = cell
		case colUnitPrice:
			if p, err := locale.ParseAmount(cell); err == nil {
				item.UnitPrice = p
				haveUnitPrice = true
			}
		case colTotal:
			if t, err := locale.ParseAmount(cell); err == nil {
				item.Total = t
				haveTotal = true
			}
		}
	}

	if item.Description == "" || !haveQty || !haveUnitPrice {
		return domain.LineItem{}, false
	}
	if !haveTotal {
		item.Total = item.ComputedTotal()
	}
	return item, true
}
