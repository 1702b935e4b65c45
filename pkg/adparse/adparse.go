// Package adparse parses vehicle advertisements into structured listing
// data. Input is an ad screenshot, a PDF, raw text, or a listing URL;
// output is a Result whose fields are all optional. Extraction is
// deterministic and heuristic, so a partially filled Result is the normal
// case, not an error.
package adparse

import (
	"context"
	"strings"

	"github.com/nordbil/adextract/internal/config"
	"github.com/nordbil/adextract/internal/extractor"
	"github.com/nordbil/adextract/internal/normalize"
	"github.com/nordbil/adextract/internal/scraper"
)

// Result is the structured listing extracted from an advertisement.
type Result = extractor.Result

// BlockedError reports a listing site that refuses automated access. Its
// HelpText suggests the manual alternatives.
type BlockedError = scraper.BlockedError

// FetchError reports a transport-level failure while acquiring a listing.
type FetchError = scraper.FetchError

// ErrCapabilityUnavailable is returned when OCR or PDF rasterization is
// requested but the external binaries are not installed.
var ErrCapabilityUnavailable = normalize.ErrCapabilityUnavailable

// acquirer is the part of the acquisition chain the parser needs.
type acquirer interface {
	Acquire(ctx context.Context, url string) scraper.Outcome
}

// Parser is the engine front door. The zero value is not usable; call New.
type Parser struct {
	ocr     normalize.OCR
	chain   acquirer
	pdfOpts normalize.PDFOptions
}

// Option configures a Parser.
type Option func(*Parser)

// WithOCR swaps the OCR engine, mainly for tests.
func WithOCR(engine normalize.OCR) Option {
	return func(p *Parser) { p.ocr = engine }
}

// WithChain swaps the acquisition chain.
func WithChain(chain *scraper.Chain) Option {
	return func(p *Parser) { p.chain = chain }
}

// New returns a Parser with the default OCR engine and acquisition chain.
func New(opts ...Option) *Parser {
	p := &Parser{
		ocr:   normalize.NewTesseractOCR(),
		chain: scraper.NewChain(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewFromConfig builds a Parser honoring the deployment configuration:
// OCR binary and languages, rasterization settings and fetch timeouts.
func NewFromConfig(cfg *config.Config) *Parser {
	chain := scraper.NewChain()
	chain.Direct.Timeout = cfg.FetchTimeout
	chain.Browser.Timeout = cfg.BrowserTimeout
	return &Parser{
		ocr: &normalize.TesseractOCR{
			Binary:    cfg.OCRBinary,
			Languages: cfg.OCRLanguages,
		},
		chain: chain,
		pdfOpts: normalize.PDFOptions{
			RasterBinary: cfg.RasterBinary,
			MaxOCRPages:  cfg.MaxOCRPages,
			RasterDPI:    cfg.RasterDPI,
		},
	}
}

// ParseText extracts listing fields from already-normalized text.
func (p *Parser) ParseText(text string) *Result {
	return extractor.Extract(text)
}

// ParseImage runs OCR on an ad screenshot and extracts listing fields.
// Returns ErrCapabilityUnavailable when no OCR engine is installed.
func (p *Parser) ParseImage(ctx context.Context, image []byte) (*Result, error) {
	text, err := normalize.ImageBytesToText(ctx, p.ocr, image)
	if err != nil {
		return nil, err
	}
	return extractor.Extract(text), nil
}

// ParsePDF extracts listing fields from a PDF, using its embedded text
// when present and OCR on rasterized pages when scanned.
func (p *Parser) ParsePDF(ctx context.Context, data []byte) (*Result, error) {
	text, err := normalize.PDFToTextWith(ctx, p.ocr, data, p.pdfOpts)
	if err != nil {
		return nil, err
	}
	return extractor.Extract(text), nil
}

// ParseURL acquires the listing page and extracts its fields. The Result
// always carries the URL; a blocked source yields a Result with Blocked
// set and operator guidance in HelpText rather than an error.
func (p *Parser) ParseURL(ctx context.Context, adURL string) (*Result, error) {
	adURL = strings.TrimSpace(adURL)
	outcome := p.chain.Acquire(ctx, adURL)

	switch outcome.Kind {
	case scraper.OutcomeText:
		result := extractor.Extract(outcome.Text)
		result.AdURL = adURL
		if result.SourceSite == "" {
			result.SourceSite = outcome.Site
		}
		return result, nil

	case scraper.OutcomeBlocked:
		result := &Result{
			AdURL:      adURL,
			SourceSite: outcome.Site,
			Blocked:    true,
			HelpText:   outcome.HelpText,
			Error:      outcome.Err.Error(),
		}
		return result, nil

	default:
		return nil, outcome.Err
	}
}
