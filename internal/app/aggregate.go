package app

import (
	"strconv"

	"tripchat/internal/domain"
)

// Aggregate reshapes raw offer records into the normalized per-hotel view
// and, when the query carried a budget, computes budget-fit statistics.
// Returns nil when there are no priceable rooms at all — never zero-value
// statistics.
func Aggregate(offers []domain.HotelOffer, q domain.TravelQuery) *domain.OfferSummary {
	if len(offers) == 0 {
		return nil
	}

	var hotels []domain.HotelResult
	totalRooms := 0
	for _, o := range offers {
		hr := domain.HotelResult{
			Name:      o.Hotel.Name,
			Rating:    o.Hotel.Rating,
			Address:   o.Hotel.Address,
			Coords:    o.Hotel.Coords,
			Amenities: o.Hotel.Amenities,
		}
		for _, r := range o.Rooms {
			amount, err := strconv.ParseFloat(r.Total, 64)
			if err != nil || amount <= 0 {
				continue
			}
			hr.Rooms = append(hr.Rooms, domain.Room{
				Type:               r.Type,
				Description:        r.Description,
				Price:              domain.Price{Amount: amount, Currency: r.Currency},
				CancellationPolicy: r.CancellationPolicy,
			})
		}
		if len(hr.Rooms) == 0 {
			continue
		}
		totalRooms += len(hr.Rooms)
		hotels = append(hotels, hr)
	}
	if totalRooms == 0 {
		return nil
	}

	out := &domain.OfferSummary{Hotels: hotels}
	if q.Budget != nil {
		out.BudgetAnalysis = analyzeBudget(hotels, q.Budget.Amount)
	}
	return out
}

// analyzeBudget computes a two-level average: mean room price per hotel
// first, then the mean of those means across hotels. A hotel with many
// rooms carries the same weight as one with a single room.
func analyzeBudget(hotels []domain.HotelResult, budget float64) *domain.BudgetAnalysis {
	ba := &domain.BudgetAnalysis{}
	first := true
	var hotelAvgSum float64

	for _, h := range hotels {
		var sum float64
		for _, r := range h.Rooms {
			p := r.Price.Amount
			sum += p
			if first || p < ba.CheapestPrice {
				ba.CheapestPrice = p
				first = false
			}
			if p <= budget {
				ba.WithinBudget = true
			}
		}
		hotelAvgSum += sum / float64(len(h.Rooms))
	}
	ba.AveragePrice = hotelAvgSum / float64(len(hotels))
	return ba
}
