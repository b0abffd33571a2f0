package docparse

import (
	"regexp"
	"strings"

	"belegwerk/internal/domain"
)

var (
	zipCityPattern   = regexp.MustCompile(`^(\d{5})\s+(\S.*)$`)
	emailPattern     = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	taxNumberPattern = regexp.MustCompile(`(?i)(?:USt[-.\s]?IdNr\.?|Steuernummer|St\.?-?Nr\.?)[:\s]*([A-Z]{0,2}[0-9/\s]{8,15}[0-9])`)
	houseNumberHint  = regexp.MustCompile(`\d`)
)

// extractCustomer locates the customer address block: the densest contiguous
// text block between the sender's own letterhead and the document-type
// anchor, identified by a German zip+city line. The sender block (the first
// block on the page) is skipped.
func extractCustomer(lines []string, docType domain.DocumentType) domain.CustomerBlock {
	limit := anchorLine(lines, docType)

	type block struct {
		start, end int // [start, end)
		hasZip     bool
	}
	var blocks []block

	i := 0
	for i < limit {
		if strings.TrimSpace(lines[i]) == "" {
			i++
			continue
		}
		b := block{start: i}
		for i < limit && strings.TrimSpace(lines[i]) != "" {
			if zipCityPattern.MatchString(strings.TrimSpace(lines[i])) {
				b.hasZip = true
			}
			i++
		}
		b.end = i
		blocks = append(blocks, b)
	}

	// The recipient window is the last zip-bearing block before the anchor;
	// everything earlier belongs to the sender's letterhead.
	var chosen *block
	for idx := range blocks {
		if idx == 0 {
			continue
		}
		if blocks[idx].hasZip {
			chosen = &blocks[idx]
		}
	}
	if chosen == nil {
		return domain.CustomerBlock{}
	}

	var cust domain.CustomerBlock
	for j := chosen.start; j < chosen.end; j++ {
		line := strings.TrimSpace(lines[j])

		if m := zipCityPattern.FindStringSubmatch(line); m != nil {
			cust.Zip = m[1]
			cust.City = strings.TrimSpace(m[2])
			continue
		}
		if m := emailPattern.FindString(line); m != "" {
			cust.Email = strings.ToLower(m)
			continue
		}
		if m := taxNumberPattern.FindStringSubmatch(line); m != nil {
			cust.TaxNumber = strings.TrimSpace(m[1])
			continue
		}
		if cust.Name == "" {
			cust.Name = line
			continue
		}
		if cust.Street == "" && houseNumberHint.MatchString(line) {
			cust.Street = line
			continue
		}
		// Additional name lines ("z. Hd. Frau Muster") extend the name.
		if cust.Street == "" {
			cust.Name += ", " + line
		}
	}
	return cust
}
