// Package scraper acquires raw advertisement content from listing sites.
// Acquisition is a short strategy chain per URL: a direct fetch with
// desktop-browser headers, block detection, and a single escalation to
// headless-browser rendering for sites that need it. The chain never
// retries a strategy; one direct attempt plus at most one escalated
// attempt bounds worst-case latency and avoids hammering a source that
// has already said no.
package scraper

import "fmt"

// OutcomeKind tags the acquisition result variant.
type OutcomeKind int

const (
	// OutcomeText carries usable page text.
	OutcomeText OutcomeKind = iota

	// OutcomeBlocked means the source actively rejected automated access.
	OutcomeBlocked

	// OutcomeFailure is a network or automation failure.
	OutcomeFailure
)

// Outcome is the terminal state of the acquisition chain for one URL.
type Outcome struct {
	Kind OutcomeKind

	// Text is the normalized page text (OutcomeText only).
	Text string

	// Site names the recognized listing site, when known.
	Site string

	// Reason is a short human-readable failure or block description.
	Reason string

	// HelpText carries remediation guidance for blocked sources: the
	// two user-facing escape hatches are manual copy-paste and
	// screenshot-then-OCR.
	HelpText string

	// Err is the underlying *BlockedError or *FetchError, nil for
	// OutcomeText.
	Err error
}

// BlockedError is returned to callers when a source rejects automated
// access. It is distinct from a plain fetch failure so the UI can present
// actionable guidance instead of a generic error.
type BlockedError struct {
	Site     string
	Reason   string
	HelpText string
}

func (e *BlockedError) Error() string {
	if e.Site != "" {
		return fmt.Sprintf("%s blokerer automatisk adgang", e.Site)
	}
	return "kilden blokerer automatisk adgang"
}

// FetchError wraps a transport-level acquisition failure.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("kunne ikke hente %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
