package extractor

import (
	"regexp"
	"strings"

	"github.com/nordbil/adextract/internal/transport"
)

// Country inference is a weighted-signal accumulator rather than a single
// pattern match: the same ad can quote a German city inside a Swedish
// listing, so no single cue is trusted on its own. The weights below are
// hand-tuned policy, not derived values; a marketplace site name is
// deliberately the dominant signal.
const (
	signalWeightSite        = 5 // known marketplace domain, strongest signal
	signalWeightSiteGerman  = 3 // mobile.de mention
	signalWeightCity        = 2
	signalWeightVocabulary  = 1
	signalWeightLegalSuffix = 1
	signalWeightDialingCode = 2
	signalWeightCountryName = 2

	// countryScoreThreshold is the minimum score a country needs, in
	// addition to strictly beating the other, before it is asserted.
	// Below it the inference stays silent rather than guessing.
	countryScoreThreshold = 2
)

var (
	germanVocabulary  = []string{"STANDORT", "HÄNDLER", "ERSTZULASSUNG", "FAHRZEUGHALTER", "HU", "TÜV"}
	swedishVocabulary = []string{"SÄLJARE", "SÄLJS AV", "FÖRSTA REG", "ÄGARE", "BESIKTAD", "MILTAL", "KÖRDA MIL"}

	germanLegalSuffixes  = []string{"GMBH", "KG", "OHG"}
	swedishLegalSuffixes = []string{"AKTIEBOLAG"}

	germanPhonePattern  = regexp.MustCompile(`\+49\s|\(49\)`)
	swedishPhonePattern = regexp.MustCompile(`\+46\s|\(46\)|^46\s`)
)

// inferCountry scores German and Swedish signals over the raw text and
// returns the winner, or "" when the evidence is tied or too weak.
func inferCountry(text string) (string, bool) {
	upper := strings.ToUpper(text)

	german := 0
	if strings.Contains(upper, "MOBILE.DE") || strings.Contains(upper, "MOBILE DE") {
		german += signalWeightSiteGerman
	}
	if anyCityPresent(upper, transport.GermanCities) {
		german += signalWeightCity
	}
	if anyWordPresent(upper, germanVocabulary) {
		german += signalWeightVocabulary
	}
	if anyWordPresent(upper, germanLegalSuffixes) {
		german += signalWeightLegalSuffix
	}
	if germanPhonePattern.MatchString(text) {
		german += signalWeightDialingCode
	}

	swedish := 0
	if strings.Contains(upper, "BLOCKET") {
		swedish += signalWeightSite
	}
	if strings.Contains(upper, "BLOCKET.SE") {
		swedish += signalWeightSite
	}
	if anyCityPresent(upper, transport.SwedishCities) {
		swedish += signalWeightCity
	}
	if anyWordPresent(upper, swedishVocabulary) {
		swedish += signalWeightVocabulary
	}
	// Bare "AB" needs surrounding spaces; the word alone is too common in
	// German prose ("ab 100 €") to trust.
	if anyWordPresent(upper, swedishLegalSuffixes) || strings.Contains(upper, " AB ") {
		swedish += signalWeightLegalSuffix
	}
	if swedishPhonePattern.MatchString(text) {
		swedish += signalWeightDialingCode
	}
	if strings.Contains(upper, "SVERIGE") || strings.Contains(upper, "SWEDEN") {
		swedish += signalWeightCountryName
	}

	switch {
	case german > swedish && german >= countryScoreThreshold:
		return transport.CountryGermany, true
	case swedish > german && swedish >= countryScoreThreshold:
		return transport.CountrySweden, true
	}
	return "", false
}

func anyCityPresent(upper string, cities []string) bool {
	for _, city := range cities {
		if wordIndex(upper, city) >= 0 {
			return true
		}
	}
	return false
}

func anyWordPresent(upper string, words []string) bool {
	for _, w := range words {
		if wordIndex(upper, w) >= 0 {
			return true
		}
	}
	return false
}
