package pdftext

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/gen2brain/go-fitz"

	"belegwerk/internal/domain"
)

// RenderPages rasterizes up to maxPages pages of a PDF into PNG images for
// the vision fallback. Unlike ExtractText this works on pure-image scans,
// but still fails with ErrUnreadablePDF when the stream is not a PDF at all.
func RenderPages(data []byte, maxPages int) ([][]byte, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("opening pdf for rendering: %v: %w", err, domain.ErrUnreadablePDF)
	}
	defer doc.Close()

	n := doc.NumPage()
	if n == 0 {
		return nil, fmt.Errorf("pdf has no pages: %w", domain.ErrUnreadablePDF)
	}
	if maxPages > 0 && n > maxPages {
		n = maxPages
	}

	images := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		img, err := doc.Image(i)
		if err != nil {
			return nil, fmt.Errorf("rendering page %d: %w", i+1, err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encoding page %d: %w", i+1, err)
		}
		images = append(images, buf.Bytes())
	}
	return images, nil
}
