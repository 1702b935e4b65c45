package extractor

// Result is the flat record produced by one extraction pass. Every field is
// independently optional; a mostly empty Result is a valid outcome, not a
// failure. The record is advisory pre-fill data for a vehicle form and is
// always reviewed by a human before anything is persisted.
type Result struct {
	VIN              string  `json:"vin,omitempty"`
	Make             string  `json:"make,omitempty"`
	Model            string  `json:"model,omitempty"`
	Year             int     `json:"year,omitempty"`
	RegistrationDate string  `json:"registration_date,omitempty"`
	Price            int     `json:"price,omitempty"`
	Currency         string  `json:"currency,omitempty"`
	Mileage          int     `json:"mileage,omitempty"`
	Color            string  `json:"color,omitempty"`
	PowerHP          int     `json:"power_hp,omitempty"`
	Doors            int     `json:"doors,omitempty"`
	Seats            int     `json:"seats,omitempty"`
	EngineSizeL      float64 `json:"engine_size_l,omitempty"`
	DealerName       string  `json:"dealer_name,omitempty"`
	Location         string  `json:"location,omitempty"`
	ImportCountry    string  `json:"import_country,omitempty"`
	Phone            string  `json:"phone,omitempty"`
	FuelType         string  `json:"fuel_type,omitempty"`
	Transmission     string  `json:"transmission,omitempty"`

	// Equipment lists matched equipment keywords in match order, capped.
	Equipment []string `json:"equipment,omitempty"`

	SourceSite string `json:"source_site,omitempty"`

	// TransportCostEstimate and DistanceKm are either both set or both
	// zero; a cost is only derived once a distance is resolved.
	TransportCostEstimate float64 `json:"transport_cost_estimate,omitempty"`
	DistanceKm            int     `json:"distance_km,omitempty"`

	// RawText is the normalized text the extractors ran over, kept for
	// audit and debugging.
	RawText string `json:"raw_text"`

	// AdURL, Blocked and HelpText are populated by the URL entry point.
	AdURL    string `json:"ad_url,omitempty"`
	Blocked  bool   `json:"blocked,omitempty"`
	HelpText string `json:"help_text,omitempty"`

	Error string `json:"error,omitempty"`
}

// Fuel type values as the consuming form expects them.
const (
	FuelDiesel   = "diesel"
	FuelGasoline = "gasoline"
	FuelElectric = "electric"
	FuelHybrid   = "hybrid"
)

// Transmission values.
const (
	TransmissionAutomatic = "automatic"
	TransmissionManual    = "manual"
)
