package scraper

import (
	"net/url"
	"strings"
	"time"
)

// Escalation says when the chain moves from direct fetch to a headless
// browser for a given site.
type Escalation int

const (
	// EscalateOnBlock renders the page in a browser only after the
	// direct fetch is blocked or comes back implausibly thin.
	EscalateOnBlock Escalation = iota

	// EscalateAlways skips the direct fetch entirely; the site renders
	// its content client-side and a plain GET returns an empty shell.
	EscalateAlways

	// EscalateNever terminates on block instead of escalating; the
	// site's bot defense also defeats headless automation, so the only
	// useful response is remediation guidance for the operator.
	EscalateNever
)

func (e Escalation) String() string {
	switch e {
	case EscalateAlways:
		return "always"
	case EscalateNever:
		return "never"
	default:
		return "on-block"
	}
}

// ReadySignal is the per-site condition that marks a rendered page usable.
type ReadySignal struct {
	// MinContentLength is the rendered-text length to poll for. Zero
	// means no polling, only the settle delay.
	MinContentLength int

	// SettleDelay is an extra wait after load for late dynamic content.
	SettleDelay time.Duration
}

// SiteStrategy bundles everything that differs per listing site: fetch
// headers, browser fingerprint, escalation trigger and readiness signal.
type SiteStrategy struct {
	// Name is the human-readable site name ("mobile.de").
	Name string

	// HostSuffixes match the URL host against this strategy.
	HostSuffixes []string

	// UserAgent for the direct fetch.
	UserAgent string

	// AcceptLanguage tuned to the site's expected locale.
	AcceptLanguage string

	// BrowserUserAgent and BrowserLocale configure the headless browser.
	BrowserUserAgent string
	BrowserLocale    string

	Escalation Escalation
	Ready      ReadySignal

	// BlockHelpText is shown to the operator when the site blocks us.
	BlockHelpText string
}

const (
	windowsChromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"
	macChromeUA     = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"
)

// siteStrategies is the strategy-selection table. Order matters only for
// overlapping suffixes, which the current table does not have.
var siteStrategies = []SiteStrategy{
	{
		Name:             "mobile.de",
		HostSuffixes:     []string{"mobile.de"},
		UserAgent:        windowsChromeUA,
		AcceptLanguage:   "de-DE,de;q=0.9",
		BrowserUserAgent: windowsChromeUA,
		BrowserLocale:    "de-DE",
		Escalation:       EscalateNever,
		BlockHelpText: "Mobile.de har stærk bot-beskyttelse. Alternativer:\n" +
			"1. Kopier bilens data manuelt og indsæt i \"Noter\" feltet\n" +
			"2. Tag et screenshot af annoncen og upload det (OCR)\n" +
			"3. Brug en anden tysk bilsite (autoscout24.de fungerer måske bedre)",
	},
	{
		Name:             "Blocket",
		HostSuffixes:     []string{"blocket.se"},
		UserAgent:        macChromeUA,
		AcceptLanguage:   "sv-SE,sv;q=0.9",
		BrowserUserAgent: macChromeUA,
		BrowserLocale:    "sv-SE",
		Escalation:       EscalateAlways,
		Ready:            ReadySignal{MinContentLength: 10000, SettleDelay: 3 * time.Second},
		BlockHelpText:    "Kopier annoncens data manuelt, eller upload et screenshot af annoncen (OCR)",
	},
	{
		Name:             "AutoScout24",
		HostSuffixes:     []string{"autoscout24.de", "autoscout24.com"},
		UserAgent:        windowsChromeUA,
		AcceptLanguage:   "de-DE,de;q=0.9,en;q=0.8",
		BrowserUserAgent: windowsChromeUA,
		BrowserLocale:    "de-DE",
		Escalation:       EscalateOnBlock,
		Ready:            ReadySignal{SettleDelay: 4 * time.Second},
		BlockHelpText:    "Kopier annoncens data manuelt, eller upload et screenshot af annoncen (OCR)",
	},
	{
		Name:             "Bilbasen",
		HostSuffixes:     []string{"bilbasen.dk"},
		UserAgent:        macChromeUA,
		AcceptLanguage:   "da,en-US;q=0.9,en;q=0.8",
		BrowserUserAgent: macChromeUA,
		BrowserLocale:    "da-DK",
		Escalation:       EscalateOnBlock,
		Ready:            ReadySignal{SettleDelay: 4 * time.Second},
		BlockHelpText:    "Kopier annoncens data manuelt, eller upload et screenshot af annoncen (OCR)",
	},
}

// defaultStrategy covers unrecognized hosts: Danish-first headers and
// escalation only on block.
var defaultStrategy = SiteStrategy{
	Name:             "",
	UserAgent:        macChromeUA,
	AcceptLanguage:   "da,en-US;q=0.9,en;q=0.8,de;q=0.7",
	BrowserUserAgent: macChromeUA,
	BrowserLocale:    "da-DK",
	Escalation:       EscalateOnBlock,
	Ready:            ReadySignal{SettleDelay: 4 * time.Second},
	BlockHelpText:    "Kopier annoncens data manuelt, eller upload et screenshot af annoncen (OCR)",
}

// ClassifySite resolves the strategy for a URL by host suffix.
func ClassifySite(rawURL string) SiteStrategy {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return defaultStrategy
	}
	host := strings.ToLower(u.Hostname())
	for _, s := range siteStrategies {
		for _, suffix := range s.HostSuffixes {
			if host == suffix || strings.HasSuffix(host, "."+suffix) {
				return s
			}
		}
	}
	return defaultStrategy
}

// DirectFetchHeaders is the realistic desktop header set used for the
// direct fetch, with the Accept-Language swapped per site.
func DirectFetchHeaders(s SiteStrategy) map[string]string {
	return map[string]string{
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		"Accept-Language":           s.AcceptLanguage,
		"DNT":                       "1",
		"Connection":                "keep-alive",
		"Upgrade-Insecure-Requests": "1",
		"Sec-Fetch-Dest":            "document",
		"Sec-Fetch-Mode":            "navigate",
		"Sec-Fetch-Site":            "none",
		"Sec-Fetch-User":            "?1",
		"Cache-Control":             "max-age=0",
	}
}
