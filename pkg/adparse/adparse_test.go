package adparse

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nordbil/adextract/internal/scraper"
)

const swedishAd = `Mercedes-Benz EQB 250+ 2023
449 900 kr
Miltal: 670 mil
Säljs av Bilbolaget Göteborg AB
Drivmedel: El
Besiktad. Första reg 2023. En ägare.
BLOCKET`

type fakeAcquirer struct {
	outcome scraper.Outcome
	gotURL  string
}

func (f *fakeAcquirer) Acquire(_ context.Context, url string) scraper.Outcome {
	f.gotURL = url
	return f.outcome
}

type fakeOCR struct {
	text string
	err  error
}

func (f *fakeOCR) ImageToText(context.Context, string) (string, error) { return f.text, f.err }
func (f *fakeOCR) Available() bool                                     { return f.err == nil }

func TestParseText(t *testing.T) {
	result := New().ParseText(swedishAd)
	if result.Make != "Mercedes-Benz" {
		t.Errorf("Make = %q, want Mercedes-Benz", result.Make)
	}
	if result.Mileage != 6700 {
		t.Errorf("Mileage = %d, want 6700", result.Mileage)
	}
	if result.ImportCountry != "Sverige" {
		t.Errorf("ImportCountry = %q, want Sverige", result.ImportCountry)
	}
}

func TestParseImage(t *testing.T) {
	p := New(WithOCR(&fakeOCR{text: swedishAd}))
	result, err := p.ParseImage(context.Background(), []byte("fake png bytes"))
	if err != nil {
		t.Fatalf("ParseImage: %v", err)
	}
	if result.Currency != "SEK" {
		t.Errorf("Currency = %q, want SEK", result.Currency)
	}
}

func TestParseImageCapabilityError(t *testing.T) {
	p := New(WithOCR(&fakeOCR{err: ErrCapabilityUnavailable}))
	_, err := p.ParseImage(context.Background(), []byte("x"))
	if !errors.Is(err, ErrCapabilityUnavailable) {
		t.Fatalf("err = %v, want ErrCapabilityUnavailable", err)
	}
}

func TestParseURLSuccess(t *testing.T) {
	fake := &fakeAcquirer{outcome: scraper.Outcome{
		Kind: scraper.OutcomeText,
		Text: swedishAd,
		Site: "Blocket",
	}}
	p := New()
	p.chain = fake

	result, err := p.ParseURL(context.Background(), "  https://www.blocket.se/annons/1  ")
	if err != nil {
		t.Fatalf("ParseURL: %v", err)
	}
	if fake.gotURL != "https://www.blocket.se/annons/1" {
		t.Errorf("acquired URL = %q, want trimmed", fake.gotURL)
	}
	if result.AdURL != "https://www.blocket.se/annons/1" {
		t.Errorf("AdURL = %q", result.AdURL)
	}
	if result.Blocked {
		t.Error("Blocked set on success")
	}
	if result.Make != "Mercedes-Benz" {
		t.Errorf("Make = %q", result.Make)
	}
}

func TestParseURLBlocked(t *testing.T) {
	blockedErr := &scraper.BlockedError{
		Site: "mobile.de", Reason: "HTTP 403", HelpText: "Tag et screenshot",
	}
	fake := &fakeAcquirer{outcome: scraper.Outcome{
		Kind:     scraper.OutcomeBlocked,
		Site:     "mobile.de",
		Reason:   "HTTP 403",
		HelpText: blockedErr.HelpText,
		Err:      blockedErr,
	}}
	p := New()
	p.chain = fake

	result, err := p.ParseURL(context.Background(), "https://www.mobile.de/x")
	if err != nil {
		t.Fatalf("blocked source must not be an error, got %v", err)
	}
	if !result.Blocked {
		t.Fatal("Blocked not set")
	}
	if result.HelpText == "" || result.Error == "" {
		t.Errorf("blocked result missing guidance: help=%q error=%q", result.HelpText, result.Error)
	}
	if result.SourceSite != "mobile.de" {
		t.Errorf("SourceSite = %q", result.SourceSite)
	}
}

func TestParseURLFailure(t *testing.T) {
	fetchErr := &scraper.FetchError{URL: "https://x.example", Err: errors.New("connection refused")}
	fake := &fakeAcquirer{outcome: scraper.Outcome{
		Kind: scraper.OutcomeFailure,
		Err:  fetchErr,
	}}
	p := New()
	p.chain = fake

	_, err := p.ParseURL(context.Background(), "https://x.example")
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %T (%v), want *FetchError", err, err)
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("error lost cause: %v", err)
	}
}
