package scraper

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/nordbil/adextract/internal/logger"
)

// Block detection constants. A blocked response is either an explicit
// client-error status, an implausibly short page, or a page carrying a
// known block-phrase.
const (
	// minPlausibleTextLen: a real ad page yields well over this much
	// text; anything shorter is an empty shell or a block page.
	minPlausibleTextLen = 500

	defaultFetchTimeout = 15 * time.Second
)

// blockMarkers are phrases that only appear on anti-automation pages.
var blockMarkers = []string{
	"Zugriff verweigert",
	"Access denied",
	"Zugriff",
}

// directResponse is the raw result of a direct HTTP fetch.
type directResponse struct {
	StatusCode int
	Body       string
}

// DirectFetcher issues a plain HTTP GET with a desktop browser header set.
type DirectFetcher struct {
	Timeout time.Duration
}

// NewDirectFetcher returns a fetcher with the default timeout.
func NewDirectFetcher() *DirectFetcher {
	return &DirectFetcher{Timeout: defaultFetchTimeout}
}

// Fetch performs a single GET following redirects. A non-2xx status is
// returned in the response, not as an error, so the chain can tell a block
// from a transport failure.
func (f *DirectFetcher) Fetch(targetURL string, strategy SiteStrategy) (directResponse, error) {
	var resp directResponse

	// Block policy lives in looksBlocked; a robots.txt refusal must not
	// short-circuit it.
	c := colly.NewCollector(
		colly.UserAgent(strategy.UserAgent),
		colly.IgnoreRobotsTxt(),
	)
	timeout := f.Timeout
	if timeout == 0 {
		timeout = defaultFetchTimeout
	}
	c.SetRequestTimeout(timeout)

	headers := DirectFetchHeaders(strategy)
	c.OnRequest(func(r *colly.Request) {
		for k, v := range headers {
			r.Headers.Set(k, v)
		}
	})

	var fetchErr error
	c.OnResponse(func(r *colly.Response) {
		resp.StatusCode = r.StatusCode
		resp.Body = string(r.Body)
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			resp.StatusCode = r.StatusCode
			resp.Body = string(r.Body)
		}
		fetchErr = err
	})

	logger.Debug("direct fetch", "url", targetURL, "site", strategy.Name)
	if err := c.Visit(targetURL); err != nil {
		// colly reports non-2xx through OnError and Visit alike; keep
		// the status when we have one so block detection still runs.
		if resp.StatusCode == 0 {
			return resp, fmt.Errorf("direct fetch: %w", err)
		}
	}
	if fetchErr != nil && resp.StatusCode == 0 {
		return resp, fmt.Errorf("direct fetch: %w", fetchErr)
	}

	logger.Debug("direct fetch done",
		"url", targetURL, "status", resp.StatusCode, "body_len", len(resp.Body))
	return resp, nil
}

// looksBlocked applies the block criteria to a direct response whose body
// has already been reduced to text.
func looksBlocked(status int, text string) (bool, string) {
	if status >= http.StatusBadRequest && status < http.StatusInternalServerError {
		return true, fmt.Sprintf("HTTP %d", status)
	}
	if len(text) < minPlausibleTextLen {
		return true, fmt.Sprintf("implausibly short response (%d chars)", len(text))
	}
	for _, marker := range blockMarkers {
		if strings.Contains(text, marker) {
			return true, fmt.Sprintf("block page marker %q", marker)
		}
	}
	return false, ""
}
