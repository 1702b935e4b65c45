package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/nordbil/adextract/internal/logger"
	"github.com/nordbil/adextract/internal/normalize"
)

const (
	defaultBrowserTimeout = 30 * time.Second
	readyPollTimeout      = 10 * time.Second
)

// BrowserFetcher renders a page in a headless browser. The browser process
// is scoped to a single Fetch call: allocated, used and torn down inside
// it, released on every exit path including timeouts. Instances are never
// pooled or shared between requests.
type BrowserFetcher struct {
	Timeout time.Duration
}

// NewBrowserFetcher returns a fetcher with the default page-load timeout.
func NewBrowserFetcher() *BrowserFetcher {
	return &BrowserFetcher{Timeout: defaultBrowserTimeout}
}

// Fetch loads the URL in a freshly allocated headless browser configured to
// minimize automation fingerprints, waits for the site's readiness signal,
// and returns the rendered text. The browser's live DOM text is preferred
// over re-parsing raw HTML; obfuscated or dynamic markup round-trips badly
// through a parser.
func (f *BrowserFetcher) Fetch(ctx context.Context, targetURL string, strategy SiteStrategy) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-features", "IsolateOrigins,site-per-process"),
		chromedp.Flag("lang", strategy.BrowserLocale),
		chromedp.UserAgent(strategy.BrowserUserAgent),
		chromedp.WindowSize(1920, 1080),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	timeout := f.Timeout
	if timeout == 0 {
		timeout = defaultBrowserTimeout
	}
	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, timeout)
	defer cancelTimeout()

	logger.Debug("browser fetch", "url", targetURL,
		"locale", strategy.BrowserLocale, "timeout", timeout)

	headers := network.Headers{"Accept-Language": strategy.AcceptLanguage}

	actions := []chromedp.Action{
		network.Enable(),
		network.SetExtraHTTPHeaders(headers),
		// navigator.webdriver is the cheapest automation tell; the script
		// must be registered before navigation so it runs on every document.
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(
				`Object.defineProperty(navigator, 'webdriver', {get: () => undefined});`,
			).Do(ctx)
			return err
		}),
		chromedp.Navigate(targetURL),
		chromedp.WaitVisible("body", chromedp.ByQuery),
	}
	if err := chromedp.Run(timeoutCtx, actions...); err != nil {
		return "", fmt.Errorf("browser navigation: %w", err)
	}

	if err := f.waitReady(timeoutCtx, strategy.Ready); err != nil {
		// A missed readiness signal is not fatal; the settle delay has
		// already given dynamic content its chance.
		logger.Debug("readiness signal not reached, extracting anyway",
			"url", targetURL, "error", err)
	}

	text, err := renderedText(timeoutCtx)
	if err != nil {
		return "", fmt.Errorf("browser extraction: %w", err)
	}

	logger.Debug("browser fetch done", "url", targetURL, "text_len", len(text))
	return text, nil
}

// waitReady polls for the site's minimum rendered-content length, then
// applies the settle delay for late dynamic content.
func (f *BrowserFetcher) waitReady(ctx context.Context, ready ReadySignal) error {
	if ready.MinContentLength > 0 {
		expr := fmt.Sprintf(
			`document.body && document.body.innerText.length > %d`,
			ready.MinContentLength)
		pollCtx, cancel := context.WithTimeout(ctx, readyPollTimeout)
		defer cancel()
		if err := chromedp.Run(pollCtx, chromedp.Poll(expr, nil)); err != nil {
			return err
		}
	}
	if ready.SettleDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(ready.SettleDelay):
		}
	}
	return nil
}

// renderedText extracts page text from the live DOM, falling back to
// parsing the serialized HTML only when innerText comes back empty.
func renderedText(ctx context.Context) (string, error) {
	var bodyText string
	if err := chromedp.Run(ctx,
		chromedp.Evaluate(`document.body ? document.body.innerText : ""`, &bodyText),
	); err == nil && len(strings.TrimSpace(bodyText)) > 100 {
		return normalize.CleanText(bodyText), nil
	}

	var html string
	if err := chromedp.Run(ctx, chromedp.OuterHTML("html", &html)); err != nil {
		return "", err
	}
	return normalize.HTMLToText(html)
}
