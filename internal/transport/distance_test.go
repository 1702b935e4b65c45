package transport

import (
	"math"
	"testing"
)

func TestEstimateCost_KnownCity(t *testing.T) {
	est, ok := EstimateCost("DE-57074 Siegen", "")
	if !ok {
		t.Fatal("expected an estimate for a known city")
	}
	if est.DistanceKm != 873 {
		t.Errorf("expected distance 873, got %d", est.DistanceKm)
	}
	want := math.Round(873.0/100.0*DieselConsumptionPer100Km*DieselPriceDKK*100) / 100
	if est.CostDKK != want {
		t.Errorf("expected cost %.2f, got %.2f", want, est.CostDKK)
	}
}

func TestEstimateCost_CostMatchesFormula(t *testing.T) {
	est, ok := EstimateCost("Hamburg", "")
	if !ok {
		t.Fatal("expected an estimate")
	}
	if est.DistanceKm != 450 {
		t.Fatalf("expected distance 450, got %d", est.DistanceKm)
	}
	// (450/100) * 12.0 L * 13.50 DKK = 729.00
	if est.CostDKK != 729.00 {
		t.Errorf("expected cost 729.00, got %.2f", est.CostDKK)
	}
}

func TestEstimateCost_CountryFallback(t *testing.T) {
	est, ok := EstimateCost("Kleinstadt", CountryGermany)
	if !ok {
		t.Fatal("expected a country-average estimate")
	}
	if est.DistanceKm != 700 {
		t.Errorf("expected German average 700, got %d", est.DistanceKm)
	}

	est, ok = EstimateCost("Lillby", CountrySweden)
	if !ok {
		t.Fatal("expected a country-average estimate")
	}
	if est.DistanceKm != 650 {
		t.Errorf("expected Swedish average 650, got %d", est.DistanceKm)
	}
}

func TestEstimateCost_CountryHintsInLocation(t *testing.T) {
	est, ok := EstimateCost("DE-99999 Irgendwo", "")
	if !ok || est.DistanceKm != 700 {
		t.Errorf("DE- prefix should fall back to German average, got %+v ok=%v", est, ok)
	}

	est, ok = EstimateCost("Autohaus Schmidt GmbH", "")
	if !ok || est.DistanceKm != 700 {
		t.Errorf("GmbH suffix should fall back to German average, got %+v ok=%v", est, ok)
	}

	est, ok = EstimateCost("Bilfirma Nord AB", "")
	if !ok || est.DistanceKm != 650 {
		t.Errorf("AB suffix should fall back to Swedish average, got %+v ok=%v", est, ok)
	}
}

func TestEstimateCost_SignalOnlyCityUsesCountryAverage(t *testing.T) {
	// Kalmar identifies the country but has no distance entry.
	est, ok := EstimateCost("Kalmar", CountrySweden)
	if !ok || est.DistanceKm != 650 {
		t.Errorf("expected Swedish average 650 for Kalmar, got %+v ok=%v", est, ok)
	}

	est, ok = EstimateCost("Wolfsburg", CountryGermany)
	if !ok || est.DistanceKm != 700 {
		t.Errorf("expected German average 700 for Wolfsburg, got %+v ok=%v", est, ok)
	}

	// Without a resolvable country the signal-only city yields nothing,
	// matching the cost/distance both-or-neither rule.
	if _, ok := EstimateCost("Kalmar", ""); ok {
		t.Error("signal-only city without a country must yield no estimate")
	}
}

func TestCityLists_CarrySignalOnlyEntries(t *testing.T) {
	for _, want := range []string{"WOLFSBURG", "FREIBURG", "HEILBRONN"} {
		if !containsCity(GermanCities, want) {
			t.Errorf("German city list missing %s", want)
		}
	}
	for _, want := range []string{"KALMAR", "VIMMERBY", "KRISTIANSTAD", "TROLLHÄTTAN", "LIDKÖPING", "SKÖVDE"} {
		if !containsCity(SwedishCities, want) {
			t.Errorf("Swedish city list missing %s", want)
		}
	}
}

func containsCity(cities []string, name string) bool {
	for _, c := range cities {
		if c == name {
			return true
		}
	}
	return false
}

func TestEstimateCost_NoMatch(t *testing.T) {
	if _, ok := EstimateCost("Lisbon", ""); ok {
		t.Error("unknown city with no country must yield no estimate")
	}
	if _, ok := EstimateCost("", ""); ok {
		t.Error("empty location must yield no estimate")
	}
}

func TestDistance_Lookup(t *testing.T) {
	km, ok := Distance("göteborg")
	if !ok || km != 330 {
		t.Errorf("expected Göteborg at 330 km, got %d ok=%v", km, ok)
	}
	if _, ok := Distance("ATLANTIS"); ok {
		t.Error("unknown city should not resolve")
	}
}

func TestCityLists_Populated(t *testing.T) {
	if len(GermanCities) < 40 {
		t.Errorf("expected the full German city list, got %d entries", len(GermanCities))
	}
	if len(SwedishCities) < 20 {
		t.Errorf("expected the full Swedish city list, got %d entries", len(SwedishCities))
	}
}
