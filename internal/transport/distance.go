// Package transport estimates the cost of collecting an imported vehicle.
//
// The model is deliberately simple: a static city-to-distance table plus a
// linear diesel formula. It produces a planning figure for a data-entry
// form, not a routing result.
package transport

import (
	_ "embed"
	"math"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed cities.yaml
var citiesYAML []byte

// Diesel consumption and price for a typical transport run.
const (
	DieselConsumptionPer100Km = 12.0  // liters per 100 km
	DieselPriceDKK            = 13.50 // DKK per liter
)

// Country-average fallback distances when no specific city matches.
const (
	avgDistanceGermanyKm = 700
	avgDistanceSwedenKm  = 650
)

// Country names as the CRM records them.
const (
	CountryGermany = "Tyskland"
	CountrySweden  = "Sverige"
)

type cityTable struct {
	Germany           map[string]int `yaml:"germany"`
	Sweden            map[string]int `yaml:"sweden"`
	GermanySignalOnly []string       `yaml:"germany_signal_only"`
	SwedenSignalOnly  []string       `yaml:"sweden_signal_only"`
}

var (
	// cityDistances maps an upper-cased city name to km from the Aalborg base.
	cityDistances map[string]int

	// GermanCities and SwedishCities list the known city names per country,
	// upper-cased. They double as country-inference signals.
	GermanCities  []string
	SwedishCities []string
)

func init() {
	var tbl cityTable
	if err := yaml.Unmarshal(citiesYAML, &tbl); err != nil {
		panic("transport: invalid embedded city table: " + err.Error())
	}
	cityDistances = make(map[string]int, len(tbl.Germany)+len(tbl.Sweden))
	for city, km := range tbl.Germany {
		cityDistances[city] = km
		GermanCities = append(GermanCities, city)
	}
	for city, km := range tbl.Sweden {
		cityDistances[city] = km
		SwedishCities = append(SwedishCities, city)
	}
	GermanCities = append(GermanCities, tbl.GermanySignalOnly...)
	SwedishCities = append(SwedishCities, tbl.SwedenSignalOnly...)
	// Deterministic scan order so repeated extractions agree.
	sort.Strings(GermanCities)
	sort.Strings(SwedishCities)
}

// Estimate holds a resolved transport cost.
type Estimate struct {
	CostDKK    float64
	DistanceKm int
}

// EstimateCost resolves a distance for the given ad location and returns the
// diesel cost of driving it. The location is matched against the known city
// table first; failing that, a country-average distance is used when the
// import country is known or can be inferred from hints in the location
// string itself. Returns false when no distance can be resolved.
func EstimateCost(location, importCountry string) (Estimate, bool) {
	loc := strings.ToUpper(strings.TrimSpace(location))
	if loc == "" {
		return Estimate{}, false
	}

	// Only cities with a distance entry resolve here; signal-only cities
	// fall through to the country average.
	distanceKm := 0
	for _, city := range GermanCities {
		if km, ok := cityDistances[city]; ok && strings.Contains(loc, city) {
			distanceKm = km
			break
		}
	}
	if distanceKm == 0 {
		for _, city := range SwedishCities {
			if km, ok := cityDistances[city]; ok && strings.Contains(loc, city) {
				distanceKm = km
				break
			}
		}
	}

	if distanceKm == 0 {
		switch {
		case importCountry == CountryGermany:
			distanceKm = avgDistanceGermanyKm
		case importCountry == CountrySweden:
			distanceKm = avgDistanceSwedenKm
		case containsAny(loc, "DE-", "DEUTSCHLAND", "GERMANY"):
			distanceKm = avgDistanceGermanyKm
		case containsAny(loc, "SE-", "SVERIGE", "SWEDEN"):
			distanceKm = avgDistanceSwedenKm
		case containsAny(loc, "GMBH", " KG", " AG"):
			distanceKm = avgDistanceGermanyKm
		case containsAny(loc, " AB", "AKTIEBOLAG"):
			distanceKm = avgDistanceSwedenKm
		}
	}

	if distanceKm == 0 {
		return Estimate{}, false
	}

	liters := float64(distanceKm) / 100.0 * DieselConsumptionPer100Km
	cost := math.Round(liters*DieselPriceDKK*100) / 100
	return Estimate{CostDKK: cost, DistanceKm: distanceKm}, true
}

// Distance returns the table distance for an exact upper-cased city name.
func Distance(city string) (int, bool) {
	km, ok := cityDistances[strings.ToUpper(city)]
	return km, ok
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
