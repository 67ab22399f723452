package domain

// HotelSummary identifies one candidate hotel in a city.
type HotelSummary struct {
	ID        string
	Name      string
	Rating    *int
	Address   *string
	Coords    *Coords
	Amenities []string
}

type Coords struct{ Lat, Lon float64 }

// HotelOffer is one raw inventory record: a hotel plus zero or more room
// offers as returned by the inventory service. Prices stay in wire form
// (string totals) until aggregation.
type HotelOffer struct {
	Hotel HotelSummary
	Rooms []RoomOffer
}

type RoomOffer struct {
	Type               string
	Description        string
	Total              string // decimal string, e.g. "184.00"
	Currency           string
	CancellationPolicy *string
}

// HotelResult is the normalized per-hotel view handed to the composer.
type HotelResult struct {
	Name      string   `json:"name"`
	Rating    *int     `json:"rating,omitempty"`
	Address   *string  `json:"address,omitempty"`
	Coords    *Coords  `json:"coords,omitempty"`
	Amenities []string `json:"amenities,omitempty"`
	Rooms     []Room   `json:"rooms"`
}

type Room struct {
	Type               string  `json:"type,omitempty"`
	Description        string  `json:"description,omitempty"`
	Price              Price   `json:"price"`
	CancellationPolicy *string `json:"cancellationPolicy,omitempty"`
}

type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// BudgetAnalysis is computed only when the query carried a budget.
// AveragePrice is the mean of per-hotel average room prices, averaged again
// across hotels, not a flat mean over all rooms.
type BudgetAnalysis struct {
	WithinBudget  bool    `json:"withinBudget"`
	CheapestPrice float64 `json:"cheapestPrice"`
	AveragePrice  float64 `json:"averagePrice"`
}

// OfferSummary is the aggregated output for one chat turn. Transient, never
// persisted.
type OfferSummary struct {
	Hotels         []HotelResult   `json:"hotels"`
	BudgetAnalysis *BudgetAnalysis `json:"budgetAnalysis,omitempty"`
}
