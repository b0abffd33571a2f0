// Package pdftext extracts raw text with approximate row/column structure
// from PDF byte streams. A document for which no readable text layer can be
// recovered fails with domain.ErrUnreadablePDF, which is the trigger for
// escalating to the vision fallback extractor.
package pdftext

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"belegwerk/internal/domain"
)

// Document is the reader's output: ordered page texts plus the combined text.
type Document struct {
	Pages []string
}

// Text returns all pages joined into one string.
func (d *Document) Text() string {
	return strings.Join(d.Pages, "\n\n")
}

// ExtractText parses a PDF byte stream and returns row-ordered page texts.
// Two methods are tried: the library's row grouping, then coordinate-based
// row reconstruction. When neither yields readable text the PDF is treated
// as unreadable (pure-image scan or corrupt stream).
func ExtractText(data []byte) (doc *Document, err error) {
	// The pdf library panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("pdf reader crashed: %v: %w", r, domain.ErrUnreadablePDF)
		}
	}()

	reader, openErr := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if openErr != nil {
		return nil, fmt.Errorf("opening pdf: %v: %w", openErr, domain.ErrUnreadablePDF)
	}

	numPages := reader.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("pdf has no pages: %w", domain.ErrUnreadablePDF)
	}

	pages := extractByRow(reader, numPages)
	if isReadableText(pages) {
		return &Document{Pages: pages}, nil
	}

	pages = extractByContent(reader, numPages)
	if isReadableText(pages) {
		return &Document{Pages: pages}, nil
	}

	return nil, fmt.Errorf("no extractable text layer: %w", domain.ErrUnreadablePDF)
}

// extractByRow uses the library's row grouping, which preserves layout best
// on well-structured PDFs.
func extractByRow(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			line := strings.TrimSpace(strings.Join(parts, " "))
			if line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// extractByContent reconstructs rows from raw text-object coordinates:
// pieces are grouped by rounded Y, rows sorted top-to-bottom, pieces within a
// row sorted by X. Wide X gaps become tab stops so tabular regions keep an
// approximate column structure.
func extractByContent(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		if len(content.Text) == 0 {
			continue
		}

		type piece struct {
			x float64
			s string
		}
		rowMap := make(map[int][]piece)
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			yKey := int(math.Round(t.Y))
			rowMap[yKey] = append(rowMap[yKey], piece{x: t.X, s: t.S})
		}

		yKeys := make([]int, 0, len(rowMap))
		for y := range rowMap {
			yKeys = append(yKeys, y)
		}
		// PDF Y grows bottom-to-top, so descending Y is reading order.
		sort.Sort(sort.Reverse(sort.IntSlice(yKeys)))

		var lines []string
		for _, y := range yKeys {
			row := rowMap[y]
			sort.Slice(row, func(a, b int) bool { return row[a].x < row[b].x })

			var sb strings.Builder
			lastEnd := -1.0
			for _, p := range row {
				if lastEnd >= 0 {
					if p.x-lastEnd > columnGap {
						sb.WriteByte('\t')
					} else {
						sb.WriteByte(' ')
					}
				}
				sb.WriteString(p.s)
				lastEnd = p.x + approxWidth(p.s)
			}
			line := strings.TrimSpace(sb.String())
			if line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// columnGap is the X distance (in PDF points) above which two pieces on the
// same row are treated as separate table columns.
const columnGap = 18.0

func approxWidth(s string) float64 {
	// Rough average glyph width at common body sizes.
	return float64(len(s)) * 5.0
}

// isReadableText requires a minimum amount of text and a high share of
// readable characters. Identity-encoded fonts otherwise produce garbage that
// would poison downstream regex extraction.
func isReadableText(pages []string) bool {
	total, readable := 0, 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if r < 128 && (unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || unicode.IsPunct(r)) ||
				r == '€' || r == 'ä' || r == 'ö' || r == 'ü' || r == 'Ä' || r == 'Ö' || r == 'Ü' || r == 'ß' {
				readable++
			}
		}
	}
	if total <= 50 {
		return false
	}
	return float64(readable)/float64(total) > 0.6
}
