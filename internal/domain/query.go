package domain

// TravelQuery is the structured intent extracted from a user utterance.
// Every field is optional: an empty query is valid and means "no actionable
// travel parameters", which skips the inventory lookup entirely.
type TravelQuery struct {
	Destination string       `json:"destination,omitempty"`
	CheckIn     string       `json:"checkIn,omitempty"`  // phrase until resolved, then YYYY-MM-DD
	CheckOut    string       `json:"checkOut,omitempty"` // phrase until resolved, then YYYY-MM-DD
	Guests      *Guests      `json:"guests,omitempty"`
	Budget      *Budget      `json:"budget,omitempty"`
	Preferences *Preferences `json:"preferences,omitempty"`
	Flexibility int          `json:"flexibility,omitempty"` // days of date slack
}

type Guests struct {
	Adults   int `json:"adults"`
	Children int `json:"children,omitempty"`
}

type Budget struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type Preferences struct {
	HotelType      []string `json:"hotelType,omitempty"`
	Amenities      []string `json:"amenities,omitempty"`
	Activities     []string `json:"activities,omitempty"`
	Transportation []string `json:"transportation,omitempty"`
}

func (q TravelQuery) IsEmpty() bool {
	return q.Destination == "" && q.CheckIn == "" && q.CheckOut == "" &&
		q.Guests == nil && q.Budget == nil && q.Preferences == nil
}

// DefaultAdults is the occupancy default used when the query carries no
// guest count.
const DefaultAdults = 2

// HotelSearchParams is the concrete inventory lookup derived from a
// TravelQuery plus defaults. Both dates are required ISO calendar dates.
type HotelSearchParams struct {
	CityCode     string
	CheckInDate  string
	CheckOutDate string
	Adults       int
}
