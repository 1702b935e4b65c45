package normalize

import (
	"strings"
	"testing"
)

func TestHTMLToText_StripsNonContent(t *testing.T) {
	html := `<html><head><style>body{color:red}</style></head>
<body><script>var x = "Pris: 1 DKK";</script>
<noscript>Enable JavaScript</noscript>
<h1>Mercedes GLC</h1><p>Pris: 185.000 DKK</p></body></html>`

	text, err := HTMLToText(html)
	if err != nil {
		t.Fatalf("HTMLToText() error = %v", err)
	}
	if strings.Contains(text, "color:red") || strings.Contains(text, "var x") {
		t.Errorf("script/style content leaked into text: %q", text)
	}
	if strings.Contains(text, "Enable JavaScript") {
		t.Errorf("noscript content leaked into text: %q", text)
	}
	if !strings.Contains(text, "Mercedes GLC") || !strings.Contains(text, "Pris: 185.000 DKK") {
		t.Errorf("content missing from text: %q", text)
	}
}

func TestHTMLToText_LabelValueAdjacencyPreserved(t *testing.T) {
	// Label and value in separate elements must end up on separate lines,
	// not glued together, so labeled extractors can match across the break.
	html := `<body><div><span>Farve:</span><span>Sort</span></div></body>`
	text, err := HTMLToText(html)
	if err != nil {
		t.Fatalf("HTMLToText() error = %v", err)
	}
	if !strings.Contains(text, "Farve:\nSort") {
		t.Errorf("expected label/value on adjacent lines, got %q", text)
	}
}

func TestCleanText_CollapsesAndRejoins(t *testing.T) {
	in := "  Mercedes GLC  220 d  \n\n\n   \nPris: 185.000 DKK   \n"
	got := CleanText(in)
	want := "Mercedes GLC\n220 d\nPris: 185.000 DKK"
	if got != want {
		t.Errorf("CleanText() = %q, want %q", got, want)
	}
}

func TestCleanText_DropsEmptySegments(t *testing.T) {
	if got := CleanText("\n \n\t\n"); got != "" {
		t.Errorf("expected empty result, got %q", got)
	}
}
