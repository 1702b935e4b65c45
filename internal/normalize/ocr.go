package normalize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/nordbil/adextract/internal/logger"
)

// ErrCapabilityUnavailable marks a missing external capability (OCR engine,
// PDF rasterizer). It is a configuration problem, not a transient failure,
// and callers surface it with installation guidance instead of retrying.
var ErrCapabilityUnavailable = errors.New("capability unavailable")

// OCRLanguages are the recognition languages requested from the engine.
// Source ads span English, Danish, German and Swedish.
const OCRLanguages = "eng+dan+deu+swe"

// OCR converts an image into text.
type OCR interface {
	// ImageToText recognizes text in the image file at path.
	ImageToText(ctx context.Context, path string) (string, error)

	// Available reports whether the engine is installed.
	Available() bool
}

// TesseractOCR shells out to the tesseract binary, the same engine the
// upstream workflow depends on. The binary path is resolved lazily so a
// missing installation surfaces as ErrCapabilityUnavailable, never a crash.
type TesseractOCR struct {
	// Binary overrides the tesseract executable name or path.
	Binary string

	// Languages is a tesseract language spec, e.g. "eng+dan+deu+swe".
	Languages string
}

// NewTesseractOCR returns an engine with the multilingual defaults.
func NewTesseractOCR() *TesseractOCR {
	return &TesseractOCR{Binary: "tesseract", Languages: OCRLanguages}
}

func (t *TesseractOCR) binary() string {
	if t.Binary != "" {
		return t.Binary
	}
	return "tesseract"
}

// Available reports whether the tesseract binary resolves on PATH.
func (t *TesseractOCR) Available() bool {
	_, err := exec.LookPath(t.binary())
	return err == nil
}

// ImageToText runs tesseract over the image and returns the recognized
// text, cleaned.
func (t *TesseractOCR) ImageToText(ctx context.Context, path string) (string, error) {
	bin, err := exec.LookPath(t.binary())
	if err != nil {
		return "", fmt.Errorf("%w: OCR engine %q not installed", ErrCapabilityUnavailable, t.binary())
	}

	langs := t.Languages
	if langs == "" {
		langs = OCRLanguages
	}

	logger.Debug("running OCR", "image", path, "languages", langs)
	cmd := exec.CommandContext(ctx, bin, path, "stdout", "-l", langs)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return CleanText(string(out)), nil
}

// ImageBytesToText writes the image to a temp file and recognizes it.
func ImageBytesToText(ctx context.Context, engine OCR, image []byte) (string, error) {
	tmp, err := os.CreateTemp("", "adextract-*.png")
	if err != nil {
		return "", fmt.Errorf("temp image: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(image); err != nil {
		tmp.Close()
		return "", fmt.Errorf("temp image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("temp image: %w", err)
	}

	return engine.ImageToText(ctx, tmp.Name())
}

// rasterizePDF renders the first maxPages pages of the PDF at path into PNG
// files inside dir and returns their paths in page order. It shells out to
// pdftoppm, the rasterizer behind the usual PDF-to-image toolchains.
func rasterizePDF(ctx context.Context, binary, path, dir string, maxPages, dpi int) ([]string, error) {
	if binary == "" {
		binary = "pdftoppm"
	}
	bin, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("%w: PDF rasterizer (%s) not installed", ErrCapabilityUnavailable, binary)
	}

	prefix := filepath.Join(dir, "page")
	cmd := exec.CommandContext(ctx, bin,
		"-png",
		"-r", fmt.Sprint(dpi),
		"-f", "1",
		"-l", fmt.Sprint(maxPages),
		path, prefix)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("PDF rasterization failed: %w", err)
	}

	pages, err := filepath.Glob(prefix + "*.png")
	if err != nil {
		return nil, err
	}
	return pages, nil
}
