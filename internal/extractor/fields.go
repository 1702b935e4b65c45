// Package extractor turns normalized advertisement text into a structured
// vehicle record. Each field has its own extractor, an ordered chain of
// patterns from most to least specific; the first plausible match wins and
// no extractor depends on another's output.
package extractor

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

var (
	// 17 alphanumeric characters, excluding the visually ambiguous I, O, Q.
	vinPattern = regexp.MustCompile(`(?i)\b[A-HJ-NPR-Z0-9]{17}\b`)

	yearPattern = regexp.MustCompile(`\b(19\d{2}|20[0-2]\d)\b`)

	// Labeled price first: "Pris: 185.000 DKK" has far fewer false
	// positives than a bare amount-plus-currency anywhere in the text.
	priceLabeledPattern = regexp.MustCompile(`(?i)(?:Pris|Price|Preis)[:\s]*(\d[\d \x{00a0}.,]*?)[ \t]*(DKK|EUR|SEK|€|kr)`)
	priceBarePattern    = regexp.MustCompile(`(?im)(\d[\d \x{00a0}.,]*?)[ \t]*(DKK|EUR|SEK|€|kr)(?:\s|$)`)

	registrationPattern = regexp.MustCompile(`(?i)(?:Registration|Første indregistrering|Första reg|Erstzulassung|Reg)[.:\s]*(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})`)

	powerPattern = regexp.MustCompile(`(?i)(\d+)\s*(?:hk|hp|ps|kw)\b`)
	doorsPattern = regexp.MustCompile(`(?i)(\d)\s*(?:døre|dörrar|doors|türen)`)
	seatsPattern = regexp.MustCompile(`(?i)(\d)\s*(?:sæder?|säten|seats|sitzplätze)`)

	engineSizePattern = regexp.MustCompile(`(?i)(\d+[,.]\d+)\s*(?:l\b|liter)`)

	colorLabeledPattern = regexp.MustCompile(`(?i)(?:Farve|Färg|Color|Colour|Farbe|Lackierung)[:\s]*([A-Za-zæøåÆØÅäöüÄÖÜß \-]+?)(?:\n|,|;|\||$)`)

	phonePattern = regexp.MustCompile(`(?:\+\d{1,3}\s?)?\(?\d{2,4}\)?[\s\-]?\d{3,4}[\s\-]?\d{2,4}`)

	// Mileage patterns, strongest first. The Swedish "mil" unit is 10 km,
	// so those tiers carry a conversion factor.
	mileagePatterns = []struct {
		re     *regexp.Regexp
		factor int
	}{
		{regexp.MustCompile(`(?i)(?:Miltal|Körda mil|Mätarställning)[:\s]*([0-9][0-9 ]*)\s*mil\b`), 10},
		{regexp.MustCompile(`(?i)\b([0-9][0-9 ]*)\s*mil\b`), 10},
		{regexp.MustCompile(`(?i)(?:Kilometerstand|Mileage|Kilometertal)[:\s]*([0-9., ]+)\s*km`), 1},
		{regexp.MustCompile(`(?i)\b([0-9]{1,4}\.[0-9]{3})\s*km`), 1},
		{regexp.MustCompile(`(?i)\b([0-9][0-9., ]*)\s*km`), 1},
	}

	// Multilingual color names (Danish, German, English, Swedish).
	colorNames = []string{
		"Sort", "Hvid", "Grå", "Sølv", "Rød", "Blå", "Grøn", "Gul", "Brun",
		"Schwarz", "Weiß", "Grau", "Silber", "Rot", "Blau", "Grün", "Gelb", "Braun",
		"Black", "White", "Gray", "Silver", "Red", "Blue", "Green", "Yellow", "Brown",
		"Svart", "Vit", "Röd", "Grön", "Gul", "Brun",
	}

	dealerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:Säljs av|Säljare)[:\s]+([A-ZÄÖÜ0-9][A-Za-zäöüÄÖÜß0-9 &.\-]+?)(?:\n|Skriv|Visa|Tel|$)`),
		regexp.MustCompile(`(?i)(?:Händler|Dealer|Forhandler|Anbieter)[:\s]*([A-ZÄÖÜ0-9][A-Za-zäöüÄÖÜß0-9 &.\-]+?)(?:\n|Standort|Location|Ort|Tel|Telefon|Phone|$)`),
		regexp.MustCompile(`(?i)(?:Verkäufer|Seller)[:\s]*([A-ZÄÖÜ0-9][A-Za-zäöüÄÖÜß0-9 &.\-]+?)(?:\n|Standort|Location|Ort|Tel|$)`),
		regexp.MustCompile(`(?i)([A-ZÄÖÜ][A-Za-zäöüÄÖÜß &.]+?)\s+(?:GmbH|AG|AB|KG|OHG|Ltd|ApS|A/S)\b`),
	}

	dealerTrailingJunk = regexp.MustCompile(`(?i)\s*(?:Tel|Phone|Telefon|Contact).*$`)

	invalidDealerValues = []string{
		"Location", "This listing", "Standort", "Ort", "Description", "Details",
		"Map", "View", "Show", "Contact", "Call", "Email", "Website",
	}

	// Location tiers, most to least specific. The chain stops at the first
	// tier that yields any plausible candidate.
	locationPatterns = []*regexp.Regexp{
		// Swedish zip format: "598 21 VIMMERBY"
		regexp.MustCompile(`(?i)\d{3} \d{2}\s+([A-ZÄÖÜ][A-Za-zäöüÄÖÜß \-]{3,30})(?:\n|,|$|Till)`),
		// Labeled location, optionally with a country-prefixed postal code
		regexp.MustCompile(`(?i)(?:Standort|Location|Ort|Placering|Bilens plats)[:\s]*(?:[A-Z]{2}[-\s])?(?:\d{4,5}\s+)?([A-ZÄÖÜ][A-Za-zäöüÄÖÜß \-]+?)(?:\n|,|;|\||Tel|Phone|Dealer|$)`),
		// Bare postal code plus city
		regexp.MustCompile(`(?i)(?:[A-Z]{2}[-\s])?\d{4,5}\s+([A-ZÄÖÜ][A-Za-zäöüÄÖÜß \-]{3,30})(?:\n|,|;)`),
	}

	invalidLocationWords = []string{
		"this", "listing", "map", "location", "click", "view", "see",
		"description", "show", "more", "details", "information", "contact",
		"website", "email", "phone", "telefon", "dealer", "seller",
		"stolar", "säten", "dörrar", "wheels", "doors", "seats",
	}

	equipmentKeywords = []string{
		"Navigation", "Navi", "GPS", "Klimaanlæg", "Klimaanlage", "AC", "Air Condition",
		"Læder", "Leder", "Leather", "Alcantara", "Xenon", "LED", "Panorama",
		"Cruise Control", "Fartpilot", "Tempomat", "Parking", "Park", "Sensor",
		"Camera", "Kamera", "Bluetooth", "DAB", "Sound", "Harman", "Bose", "Bang & Olufsen",
		"Sædevarme", "Sitzheizung", "Heated Seats", "Keyless", "Start/Stop",
		"Trailer", "Anhænger", "Anhängerkupplung", "Tow", "Adaptiv", "ACC",
	}

	fuelLabeledPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Drivmedel[:\s]*(El|Diesel|Bensin|Hybrid)\b`),
		regexp.MustCompile(`(?i)Fuel[:\s]*(Electric|Diesel|Petrol|Gasoline|Hybrid)\b`),
	}
)

// maxEquipmentItems caps the equipment list.
const maxEquipmentItems = 10

// extractVIN returns the first VIN-shaped token, upper-cased. Ordinary
// words can be 17 letters without I/O/Q ("Fahrgestellnummer"), so a
// candidate must carry at least one digit.
func extractVIN(text string) (string, bool) {
	for _, m := range vinPattern.FindAllString(text, -1) {
		if strings.ContainsAny(m, "0123456789") {
			return strings.ToUpper(m), true
		}
	}
	return "", false
}

// extractYear collects all plausible model years and returns the most
// recent. Ads routinely mention several 4-digit numbers (model ranges,
// postal codes, prices); the latest plausible year is the best single guess.
func extractYear(text string) (int, bool) {
	maxYear := time.Now().Year() + 1
	best := 0
	for _, m := range yearPattern.FindAllString(text, -1) {
		y, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		if y >= 2000 && y <= maxYear && y > best {
			best = y
		}
	}
	return best, best != 0
}

func extractRegistrationDate(text string) (string, bool) {
	m := registrationPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// extractPrice prefers a labeled price over a bare amount-plus-currency
// match. A bare "kr" defaults to DKK unless the surrounding text carries
// strong Swedish signals, in which case it is reinterpreted as SEK.
func extractPrice(text string) (price int, currency string, ok bool) {
	m := priceLabeledPattern.FindStringSubmatch(text)
	if m == nil {
		m = priceBarePattern.FindStringSubmatch(text)
	}
	if m == nil {
		return 0, "", false
	}

	digits := stripSeparators(m[1])
	value, err := strconv.Atoi(digits)
	if err != nil || value == 0 {
		return 0, "", false
	}

	switch strings.ToUpper(m[2]) {
	case "DKK", "KR":
		if hasSwedishCurrencySignals(text) {
			currency = "SEK"
		} else {
			currency = "DKK"
		}
	case "EUR", "€":
		currency = "EUR"
	case "SEK":
		currency = "SEK"
	}
	return value, currency, true
}

// hasSwedishCurrencySignals reports whether a bare "kr" amount should be
// read as SEK rather than DKK.
func hasSwedishCurrencySignals(text string) bool {
	upper := strings.ToUpper(text)
	return strings.Contains(upper, "BLOCKET") || strings.Contains(upper, "SVERIGE")
}

// extractMileage walks the tiers in order. Swedish "mil" tiers run first so
// that "670 mil" becomes 6700 km instead of falling through to a km match.
func extractMileage(text string) (int, bool) {
	for _, tier := range mileagePatterns {
		m := tier.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value, err := strconv.Atoi(stripSeparators(m[1]))
		if err != nil {
			continue
		}
		value *= tier.factor
		if value >= 10 && value <= 9999999 {
			return value, true
		}
	}
	return 0, false
}

func extractColor(text string) (string, bool) {
	if m := colorLabeledPattern.FindStringSubmatch(text); m != nil {
		color := strings.TrimSpace(m[1])
		if plausibleColor(color) {
			return color, true
		}
	}
	for _, name := range colorNames {
		if start, end, ok := wordRange(text, name); ok {
			return text[start:end], true
		}
	}
	return "", false
}

func plausibleColor(color string) bool {
	if color == "" || len(color) >= 30 {
		return false
	}
	for _, r := range color {
		if !unicode.IsDigit(r) && !unicode.IsSpace(r) {
			return true
		}
	}
	return false
}

func extractPower(text string) (int, bool) {
	m := powerPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	hp, err := strconv.Atoi(m[1])
	if err != nil || hp == 0 {
		return 0, false
	}
	return hp, true
}

func extractDoors(text string) (int, bool) {
	m := doorsPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	doors, _ := strconv.Atoi(m[1])
	return doors, doors != 0
}

func extractSeats(text string) (int, bool) {
	m := seatsPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	seats, _ := strconv.Atoi(m[1])
	return seats, seats != 0
}

func extractEngineSize(text string) (float64, bool) {
	m := engineSizePattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	liters, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil || liters <= 0 || liters > 12 {
		return 0, false
	}
	return liters, true
}

// extractDealer tries the labeled seller patterns, then the legal-entity
// suffix heuristic, keeping the first candidate that survives the
// plausibility filter.
func extractDealer(text string) (string, bool) {
	for _, re := range dealerPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		dealer := strings.TrimSpace(m[1])
		if len(dealer) < 3 || len(dealer) > 80 {
			continue
		}
		if containsAnyFold(dealer, invalidDealerValues) {
			continue
		}
		dealer = strings.TrimSpace(dealerTrailingJunk.ReplaceAllString(dealer, ""))
		if dealer != "" {
			return dealer, true
		}
	}
	return "", false
}

// extractLocation runs the location tiers most-specific first and stops at
// the first tier producing any plausible candidate, so a weaker tier never
// overrides a stronger one.
func extractLocation(text string, knownCities []string) (string, bool) {
	for _, re := range locationPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			candidate := cleanLocationCandidate(m[1])
			if candidate != "" {
				return candidate, true
			}
		}
	}
	for _, city := range knownCities {
		if start, end, ok := wordRange(text, city); ok {
			return text[start:end], true
		}
	}
	return "", false
}

func cleanLocationCandidate(raw string) string {
	candidate := strings.TrimSpace(raw)
	if containsAnyFold(candidate, invalidLocationWords) {
		return ""
	}
	stripped := strings.NewReplacer(" ", "", "-", "").Replace(candidate)
	if stripped == "" || isAllDigits(stripped) {
		return ""
	}
	if len(candidate) < 3 || len(candidate) > 50 {
		return ""
	}
	candidate = strings.TrimSpace(dealerTrailingJunk.ReplaceAllString(candidate, ""))
	return candidate
}

func extractPhone(text string) (string, bool) {
	m := phonePattern.FindString(text)
	if m == "" {
		return "", false
	}
	return strings.TrimSpace(m), true
}

// extractFuelType prefers an explicit labeled value ("Drivmedel: El") over
// keyword presence anywhere in the text.
func extractFuelType(text string) (string, bool) {
	for _, re := range fuelLabeledPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		switch strings.ToUpper(m[1]) {
		case "EL", "ELECTRIC":
			return FuelElectric, true
		case "DIESEL":
			return FuelDiesel, true
		case "BENSIN", "PETROL", "GASOLINE":
			return FuelGasoline, true
		case "HYBRID":
			return FuelHybrid, true
		}
	}

	upper := strings.ToUpper(text)
	switch {
	case containsAnyUpper(upper, "DIESEL", "DIESELMOTOR", "TDI"):
		return FuelDiesel, true
	case containsAnyUpper(upper, "BENZIN", "PETROL", "GASOLINE", "TSI", "FSI", "BENSIN"):
		return FuelGasoline, true
	case containsAnyUpper(upper, "ELECTRIC", "ELEKTRISK", "BATTERY", "BATTERI", "EQB", "EQC", "EQA", "E-TRON", "TAYCAN"):
		return FuelElectric, true
	case containsAnyUpper(upper, "HYBRID", "PLUG-IN", "PHEV"):
		return FuelHybrid, true
	}
	return "", false
}

func extractTransmission(text string) (string, bool) {
	upper := strings.ToUpper(text)
	switch {
	case containsAnyUpper(upper, "AUTOMATIC", "AUTOMATGEAR", "AUTOMAT", "DSG", "TIPTRONIC", "STEPTRONIC"):
		return TransmissionAutomatic, true
	case containsAnyUpper(upper, "MANUAL", "MANUELL", "SCHALTGETRIEBE"):
		return TransmissionManual, true
	}
	return "", false
}

// extractEquipment returns the curated keywords present in the text, in
// list order, capped at maxEquipmentItems.
func extractEquipment(text string) ([]string, bool) {
	upper := strings.ToUpper(text)
	var found []string
	for _, kw := range equipmentKeywords {
		if strings.Contains(upper, strings.ToUpper(kw)) {
			found = append(found, kw)
			if len(found) == maxEquipmentItems {
				break
			}
		}
	}
	return found, len(found) > 0
}

// extractSourceSite recognizes which marketplace the text came from.
func extractSourceSite(text string) (string, bool) {
	upper := strings.ToUpper(text)
	switch {
	case strings.Contains(upper, "MOBILE.DE") || strings.Contains(upper, "MOBILE DE"):
		return "mobile.de", true
	case strings.Contains(upper, "BLOCKET"):
		return "Blocket", true
	case strings.Contains(upper, "BILBASEN"):
		return "Bilbasen", true
	case strings.Contains(upper, "AUTOSCOUT"):
		return "AutoScout24", true
	}
	return "", false
}

// stripSeparators removes thousands separators (dot, comma, space,
// non-breaking space, newline) so the remainder parses as an integer.
func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', ',', ' ', ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, s)
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

func containsAnyFold(s string, words []string) bool {
	lower := strings.ToLower(s)
	for _, w := range words {
		if strings.Contains(lower, strings.ToLower(w)) {
			return true
		}
	}
	return false
}

func containsAnyUpper(upper string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(upper, w) {
			return true
		}
	}
	return false
}

// wordRange reports the byte range of word in text, case-insensitively,
// requiring non-letter runes (or string edges) on both sides. regexp's \b
// is ASCII-only, which misses names like "Göteborg" or "Grå", so the
// matching and boundary checks are done rune by rune on the original
// string; lowercasing a copy first would shift byte offsets for runes
// whose case pair differs in encoded length.
func wordRange(text, word string) (start, end int, ok bool) {
	if word == "" {
		return -1, -1, false
	}
	wordRunes := utf8.RuneCountInString(word)
	for idx := range text {
		stop := idx
		for n := 0; n < wordRunes; n++ {
			if stop >= len(text) {
				return -1, -1, false
			}
			_, size := utf8.DecodeRuneInString(text[stop:])
			stop += size
		}
		if strings.EqualFold(text[idx:stop], word) &&
			boundaryBefore(text, idx) && boundaryAfter(text, stop) {
			return idx, stop, true
		}
	}
	return -1, -1, false
}

func wordIndex(text, word string) int {
	start, _, ok := wordRange(text, word)
	if !ok {
		return -1
	}
	return start
}

func boundaryBefore(s string, idx int) bool {
	if idx == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:idx])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(s string, idx int) bool {
	if idx >= len(s) {
		return true
	}
	for _, r := range s[idx:] {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}
	return true
}
