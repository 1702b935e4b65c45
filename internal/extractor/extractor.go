package extractor

import (
	"github.com/nordbil/adextract/internal/logger"
	"github.com/nordbil/adextract/internal/transport"
)

// Extract runs every field extractor over the normalized text and assembles
// the flat result. Extractors are independent and isolated: a panic in one
// is logged and skipped so it can never abort extraction of the others.
// Extract is deterministic for identical input text.
func Extract(text string) *Result {
	r := &Result{RawText: text}

	allCities := append(append([]string{}, transport.GermanCities...), transport.SwedishCities...)

	steps := []struct {
		name string
		run  func()
	}{
		{"vin", func() {
			if v, ok := extractVIN(text); ok {
				r.VIN = v
			}
		}},
		{"make_model", func() {
			if make_, model, ok := extractMakeModel(text); ok {
				r.Make = make_
				r.Model = model
			}
		}},
		{"year", func() {
			if v, ok := extractYear(text); ok {
				r.Year = v
			}
		}},
		{"registration_date", func() {
			if v, ok := extractRegistrationDate(text); ok {
				r.RegistrationDate = v
			}
		}},
		{"price", func() {
			if price, currency, ok := extractPrice(text); ok {
				r.Price = price
				r.Currency = currency
			}
		}},
		{"mileage", func() {
			if v, ok := extractMileage(text); ok {
				r.Mileage = v
			}
		}},
		{"color", func() {
			if v, ok := extractColor(text); ok {
				r.Color = v
			}
		}},
		{"power", func() {
			if v, ok := extractPower(text); ok {
				r.PowerHP = v
			}
		}},
		{"doors", func() {
			if v, ok := extractDoors(text); ok {
				r.Doors = v
			}
		}},
		{"seats", func() {
			if v, ok := extractSeats(text); ok {
				r.Seats = v
			}
		}},
		{"engine_size", func() {
			if v, ok := extractEngineSize(text); ok {
				r.EngineSizeL = v
			}
		}},
		{"dealer", func() {
			if v, ok := extractDealer(text); ok {
				r.DealerName = v
			}
		}},
		{"location", func() {
			if v, ok := extractLocation(text, allCities); ok {
				r.Location = v
			}
		}},
		{"phone", func() {
			if v, ok := extractPhone(text); ok {
				r.Phone = v
			}
		}},
		{"fuel_type", func() {
			if v, ok := extractFuelType(text); ok {
				r.FuelType = v
			}
		}},
		{"transmission", func() {
			if v, ok := extractTransmission(text); ok {
				r.Transmission = v
			}
		}},
		{"equipment", func() {
			if v, ok := extractEquipment(text); ok {
				r.Equipment = v
			}
		}},
		{"source_site", func() {
			if v, ok := extractSourceSite(text); ok {
				r.SourceSite = v
			}
		}},
		{"import_country", func() {
			if v, ok := inferCountry(text); ok {
				r.ImportCountry = v
			}
		}},
	}

	for _, step := range steps {
		runIsolated(step.name, step.run)
	}

	// Cost is derived last: it needs the resolved location and benefits
	// from an inferred country when the city is unknown.
	runIsolated("transport_cost", func() {
		if r.Location == "" {
			return
		}
		if est, ok := transport.EstimateCost(r.Location, r.ImportCountry); ok {
			r.TransportCostEstimate = est.CostDKK
			r.DistanceKm = est.DistanceKm
		}
	})

	return r
}

func runIsolated(name string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Warn("field extractor panicked, skipping", "field", name, "panic", rec)
		}
	}()
	fn()
}
