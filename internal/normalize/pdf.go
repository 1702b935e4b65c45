package normalize

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/nordbil/adextract/internal/logger"
)

const (
	// minEmbeddedTextLen decides whether a PDF is text-based or scanned.
	// Below it the embedded-text path is considered to have failed and the
	// OCR fallback runs.
	minEmbeddedTextLen = 50

	// maxOCRPages bounds how many pages of a scanned PDF are rasterized.
	maxOCRPages = 3

	// rasterDPI is the render resolution for the OCR fallback.
	rasterDPI = 300
)

// PDFOptions tune the scanned-PDF fallback.
type PDFOptions struct {
	// RasterBinary overrides the pdftoppm executable name or path.
	RasterBinary string

	// MaxOCRPages caps how many pages are rasterized and OCR'd.
	MaxOCRPages int

	// RasterDPI is the render resolution.
	RasterDPI int
}

func (o PDFOptions) withDefaults() PDFOptions {
	if o.RasterBinary == "" {
		o.RasterBinary = "pdftoppm"
	}
	if o.MaxOCRPages <= 0 {
		o.MaxOCRPages = maxOCRPages
	}
	if o.RasterDPI <= 0 {
		o.RasterDPI = rasterDPI
	}
	return o
}

// PDFToText extracts text from a PDF with default options. Text-based PDFs
// are read directly; when the embedded text is too short (a scanned,
// image-only PDF), the first few pages are rasterized and pushed through
// OCR instead.
func PDFToText(ctx context.Context, engine OCR, data []byte) (string, error) {
	return PDFToTextWith(ctx, engine, data, PDFOptions{})
}

// PDFToTextWith is PDFToText with explicit fallback options.
func PDFToTextWith(ctx context.Context, engine OCR, data []byte, opts PDFOptions) (string, error) {
	text := embeddedPDFText(data)
	if len(strings.TrimSpace(text)) >= minEmbeddedTextLen {
		return CleanText(text), nil
	}

	logger.Debug("PDF has no usable embedded text, falling back to OCR",
		"embedded_len", len(strings.TrimSpace(text)))
	return scannedPDFText(ctx, engine, data, opts.withDefaults())
}

// embeddedPDFText reads the text layer of every page. Extraction errors on
// individual pages are skipped; a scanned PDF legitimately yields nothing.
func embeddedPDFText(data []byte) string {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		logger.Debug("PDF open failed, treating as scanned", "error", err)
		return ""
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			logger.Debug("PDF page text extraction failed", "page", i, "error", err)
			continue
		}
		if pageText != "" {
			sb.WriteString(pageText)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// scannedPDFText rasterizes the first pages and OCRs each one.
func scannedPDFText(ctx context.Context, engine OCR, data []byte, opts PDFOptions) (string, error) {
	if engine == nil || !engine.Available() {
		return "", fmt.Errorf("%w: OCR engine required for scanned PDF", ErrCapabilityUnavailable)
	}

	dir, err := os.MkdirTemp("", "adextract-pdf-")
	if err != nil {
		return "", fmt.Errorf("temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	pdfPath := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(pdfPath, data, 0o600); err != nil {
		return "", fmt.Errorf("temp pdf: %w", err)
	}

	pages, err := rasterizePDF(ctx, opts.RasterBinary, pdfPath, dir, opts.MaxOCRPages, opts.RasterDPI)
	if err != nil {
		return "", err
	}
	if len(pages) == 0 {
		return "", fmt.Errorf("PDF rasterization produced no pages")
	}

	var sb strings.Builder
	for _, page := range pages {
		pageText, err := engine.ImageToText(ctx, page)
		if err != nil {
			return "", fmt.Errorf("OCR of rasterized page: %w", err)
		}
		sb.WriteString(pageText)
		sb.WriteByte('\n')
	}
	return CleanText(sb.String()), nil
}
