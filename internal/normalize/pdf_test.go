package normalize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeOCR returns canned text and records the paths it was asked to read.
// When texts is set, each call returns the next entry.
type fakeOCR struct {
	text      string
	texts     []string
	available bool
	paths     []string
}

func (f *fakeOCR) ImageToText(_ context.Context, path string) (string, error) {
	f.paths = append(f.paths, path)
	if f.texts != nil {
		return f.texts[len(f.paths)-1], nil
	}
	return f.text, nil
}

func (f *fakeOCR) Available() bool { return f.available }

func TestEmbeddedPDFText_GarbageYieldsNothing(t *testing.T) {
	if text := embeddedPDFText([]byte("not a pdf at all")); text != "" {
		t.Errorf("expected no text from garbage bytes, got %q", text)
	}
}

func TestPDFToText_NoEngineIsCapabilityError(t *testing.T) {
	_, err := PDFToText(context.Background(), nil, []byte("scanned-pdf-stand-in"))
	if !errors.Is(err, ErrCapabilityUnavailable) {
		t.Errorf("expected ErrCapabilityUnavailable, got %v", err)
	}
}

func TestPDFToText_UnavailableEngineIsCapabilityError(t *testing.T) {
	engine := &fakeOCR{available: false}
	_, err := PDFToText(context.Background(), engine, []byte("scanned-pdf-stand-in"))
	if !errors.Is(err, ErrCapabilityUnavailable) {
		t.Errorf("expected ErrCapabilityUnavailable, got %v", err)
	}
}

func TestPDFToText_ScannedFallbackOCRsRasterizedPages(t *testing.T) {
	// Stand-in rasterizer: emits two page images under the prefix it is
	// handed as its final argument, like pdftoppm does.
	dir := t.TempDir()
	stub := filepath.Join(dir, "rasterize.sh")
	script := "#!/bin/sh\nfor prefix in \"$@\"; do :; done\n: > \"$prefix-1.png\"\n: > \"$prefix-2.png\"\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("writing stub rasterizer: %v", err)
	}

	engine := &fakeOCR{
		available: true,
		texts:     []string{"Mercedes GLC 220d", "Pris: 185.000 DKK"},
	}
	text, err := PDFToTextWith(context.Background(), engine,
		[]byte("scanned-pdf-stand-in"), PDFOptions{RasterBinary: stub})
	if err != nil {
		t.Fatalf("PDFToTextWith() error = %v", err)
	}
	if text != "Mercedes GLC 220d\nPris: 185.000 DKK" {
		t.Errorf("unexpected text %q", text)
	}
	if len(engine.paths) != 2 {
		t.Fatalf("expected one OCR call per page, got %d", len(engine.paths))
	}
	for _, p := range engine.paths {
		if !strings.HasSuffix(p, ".png") {
			t.Errorf("OCR asked to read a non-page file %s", p)
		}
	}
}

func TestTesseractOCR_MissingBinary(t *testing.T) {
	engine := &TesseractOCR{Binary: "tesseract-definitely-not-installed"}
	if engine.Available() {
		t.Fatal("bogus binary must not be reported available")
	}
	_, err := engine.ImageToText(context.Background(), "whatever.png")
	if !errors.Is(err, ErrCapabilityUnavailable) {
		t.Errorf("expected ErrCapabilityUnavailable, got %v", err)
	}
}

func TestImageBytesToText_WritesTempFile(t *testing.T) {
	engine := &fakeOCR{text: "Mercedes GLC\nPris: 185.000 DKK", available: true}

	text, err := ImageBytesToText(context.Background(), engine, []byte{0x89, 'P', 'N', 'G'})
	if err != nil {
		t.Fatalf("ImageBytesToText() error = %v", err)
	}
	if text != "Mercedes GLC\nPris: 185.000 DKK" {
		t.Errorf("unexpected text %q", text)
	}
	if len(engine.paths) != 1 {
		t.Fatalf("expected exactly one OCR call, got %d", len(engine.paths))
	}
	// The temp file is removed once the call returns.
	if _, err := os.Stat(engine.paths[0]); !os.IsNotExist(err) {
		t.Errorf("temp image %s should have been removed", engine.paths[0])
	}
}
