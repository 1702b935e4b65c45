// Package normalize reduces advertisement sources (HTML, PDF, image) to a
// single plain-text blob the field extractors can run over. Line breaks are
// preserved deliberately: several extractors depend on "label, newline,
// value" adjacency in the normalized text.
package normalize

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLToText strips non-content elements and serializes the document to
// text, one segment per line.
func HTMLToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	doc.Find("script, style, noscript, iframe, svg").Remove()

	var sb strings.Builder
	doc.Find("body").Each(func(_ int, s *goquery.Selection) {
		collectText(s, &sb)
	})
	text := sb.String()
	if text == "" {
		// Fragment without a body element; fall back to the whole tree.
		collectText(doc.Selection, &sb)
		text = sb.String()
	}
	return CleanText(text), nil
}

// collectText walks the selection writing text with newlines between
// block-ish units, mirroring a separator-per-element serialization.
func collectText(s *goquery.Selection, sb *strings.Builder) {
	s.Contents().Each(func(_ int, child *goquery.Selection) {
		if goquery.NodeName(child) == "#text" {
			if t := strings.TrimSpace(child.Text()); t != "" {
				sb.WriteString(t)
				sb.WriteByte('\n')
			}
			return
		}
		collectText(child, sb)
	})
}

// CleanText normalizes raw extracted text: lines are trimmed, runs of
// double spaces become segment breaks, empty segments are dropped and the
// remainder is rejoined with single newlines. Browser innerText and OCR
// output go through the same cleanup so every source yields comparable
// text.
func CleanText(text string) string {
	var segments []string
	for _, line := range strings.Split(text, "\n") {
		for _, chunk := range strings.Split(strings.TrimSpace(line), "  ") {
			chunk = strings.TrimSpace(chunk)
			if chunk != "" {
				segments = append(segments, chunk)
			}
		}
	}
	return strings.Join(segments, "\n")
}
