package extractor

import (
	"regexp"
	"strings"
)

// knownMakes is ordered so that more specific names match before their
// prefixes: "Mercedes-Benz" must be checked before "Mercedes" and
// "Volkswagen" before "VW" so a short name never wins inside a longer one.
var knownMakes = []string{
	"Mercedes-Benz", "Mercedes", "BMW", "Audi", "Volkswagen", "VW", "Volvo", "Toyota",
	"Honda", "Ford", "Opel", "Peugeot", "Renault", "Citroën", "Skoda",
	"Seat", "Nissan", "Mazda", "Hyundai", "Kia", "Porsche", "Tesla",
	"Lexus", "Jaguar", "Land Rover", "Range Rover", "Mini", "Fiat", "Alfa Romeo",
	"Dacia", "Suzuki", "Subaru", "Mitsubishi", "Jeep", "Chevrolet", "Cadillac",
}

// modelWindowSize bounds how far past the make we look for a model token.
const modelWindowSize = 150

// maxModelWords caps the model at a short token run.
const maxModelWords = 4

// modelPattern captures a token run after the make, stopping at the first
// delimiter: a year-like number, currency marker, paragraph break, or a
// known trim/spec keyword.
var modelPattern = regexp.MustCompile(`(?i)^[\s/]*([A-Z0-9][A-Za-z0-9+\- ]{1,40}?)[\s]*(?:\d{4}|€|DKK|SEK|kr\b|\n\n|Säljs|Modellår|Model\b|AMG|Benzin|Diesel|Automatik|Manuel)`)

// genericMakeModelPattern is the fallback when no curated make matches:
// two capitalized words followed by a 4-digit year at a line start.
var genericMakeModelPattern = regexp.MustCompile(`(?m)^[ \t]*([A-Z][a-z]+(?: [A-Z][a-z]+)?)[ \t]+([A-Z0-9][A-Za-z0-9\- ]{2,20}?)[ \t]+\d{4}`)

// extractMakeModel scans the curated make list with word-boundary matching
// and, on a hit, reads a bounded window after the match for the model.
// An absent make is a valid outcome, not an error.
func extractMakeModel(text string) (make_, model string, ok bool) {
	for _, candidate := range knownMakes {
		_, end, ok := wordRange(text, candidate)
		if !ok {
			continue
		}

		window := text[end:]
		if len(window) > modelWindowSize {
			window = window[:modelWindowSize]
		}
		if m := modelPattern.FindStringSubmatch(window); m != nil {
			model = cleanModel(m[1])
		}
		return candidate, model, true
	}

	if m := genericMakeModelPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), true
	}
	return "", "", false
}

func cleanModel(raw string) string {
	model := strings.TrimSpace(raw)
	if i := strings.IndexByte(model, '\n'); i >= 0 {
		model = model[:i]
	}
	model = strings.TrimLeft(model, "/ ")
	words := strings.Fields(model)
	if len(words) > maxModelWords {
		words = words[:maxModelWords]
	}
	return strings.Join(words, " ")
}
