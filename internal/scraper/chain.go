package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/nordbil/adextract/internal/logger"
	"github.com/nordbil/adextract/internal/normalize"
)

// Chain runs the acquisition strategies for a listing URL: a cheap direct
// fetch first, escalating to a headless browser when the site's strategy
// calls for it. Per URL there is at most one direct attempt and at most
// one escalated attempt.
type Chain struct {
	Direct  *DirectFetcher
	Browser *BrowserFetcher
}

// NewChain wires a chain with default fetchers.
func NewChain() *Chain {
	return &Chain{
		Direct:  NewDirectFetcher(),
		Browser: NewBrowserFetcher(),
	}
}

// Acquire fetches the listing text for the URL. It always returns a
// well-formed Outcome; internal panics and fetch failures surface as
// OutcomeFailure, detected bot walls as OutcomeBlocked.
func (c *Chain) Acquire(ctx context.Context, targetURL string) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("acquisition panic", "url", targetURL, "panic", r)
			outcome = Outcome{
				Kind: OutcomeFailure,
				Err:  &FetchError{URL: targetURL, Err: fmt.Errorf("internal error: %v", r)},
			}
		}
	}()

	strategy := ClassifySite(targetURL)
	logger.Info("acquiring listing", "url", targetURL, "site", strategy.Name,
		"escalation", strategy.Escalation)

	return c.acquire(ctx, targetURL, strategy)
}

func (c *Chain) acquire(ctx context.Context, targetURL string, strategy SiteStrategy) Outcome {
	if strategy.Escalation == EscalateAlways {
		// Direct fetches never succeed here; skip straight to the browser.
		return c.escalate(ctx, targetURL, strategy)
	}

	text, blockReason, err := c.tryDirect(targetURL, strategy)
	if err == nil && blockReason == "" {
		return Outcome{Kind: OutcomeText, Text: text, Site: strategy.Name}
	}

	switch strategy.Escalation {
	case EscalateNever:
		reason := blockReason
		if reason == "" {
			reason = err.Error()
		}
		logger.Warn("site blocked, no escalation available",
			"url", targetURL, "site", strategy.Name, "reason", reason)
		return Outcome{
			Kind:     OutcomeBlocked,
			Site:     strategy.Name,
			Reason:   reason,
			HelpText: strategy.BlockHelpText,
			Err:      &BlockedError{Site: strategy.Name, Reason: reason, HelpText: strategy.BlockHelpText},
		}
	default:
		if blockReason != "" {
			logger.Info("direct fetch blocked, escalating to browser",
				"url", targetURL, "site", strategy.Name, "reason", blockReason)
		} else {
			logger.Info("direct fetch failed, escalating to browser",
				"url", targetURL, "site", strategy.Name, "error", err)
		}
		return c.escalate(ctx, targetURL, strategy)
	}
}

// tryDirect performs the direct fetch and normalizes the body. It returns
// the extracted text, a non-empty block reason when the response looks
// like a bot wall, or an error when the fetch itself failed.
func (c *Chain) tryDirect(targetURL string, strategy SiteStrategy) (string, string, error) {
	resp, err := c.Direct.Fetch(targetURL, strategy)
	if err != nil && resp.StatusCode == 0 {
		return "", "", &FetchError{URL: targetURL, Err: err}
	}

	text, terr := normalize.HTMLToText(resp.Body)
	if terr != nil {
		return "", "", &FetchError{URL: targetURL, Err: terr}
	}

	if blocked, reason := looksBlocked(resp.StatusCode, text); blocked {
		return "", reason, nil
	}
	return text, "", nil
}

// escalate runs the single allowed browser attempt.
func (c *Chain) escalate(ctx context.Context, targetURL string, strategy SiteStrategy) Outcome {
	text, err := c.Browser.Fetch(ctx, targetURL, strategy)
	if err != nil {
		logger.Warn("browser fetch failed", "url", targetURL,
			"site", strategy.Name, "error", err)
		return Outcome{
			Kind: OutcomeFailure,
			Site: strategy.Name,
			Err:  &FetchError{URL: targetURL, Err: err},
		}
	}

	// The browser can still land on a bot wall; re-check the rendered text.
	if blocked, reason := looksBlocked(200, text); blocked {
		return Outcome{
			Kind:     OutcomeBlocked,
			Site:     strategy.Name,
			Reason:   reason,
			HelpText: strategy.BlockHelpText,
			Err:      &BlockedError{Site: strategy.Name, Reason: reason, HelpText: strategy.BlockHelpText},
		}
	}

	return Outcome{Kind: OutcomeText, Text: strings.TrimSpace(text), Site: strategy.Name}
}
