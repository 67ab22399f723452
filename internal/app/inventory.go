package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"tripchat/internal/domain"
)

const (
	// Only a fixed prefix of candidate hotels is priced per turn.
	maxOfferHotels = 5
	offerWorkers   = 3

	// Forward-looking stay window used when the query carries no dates.
	defaultCheckInDays = 7
	defaultStayNights  = 2
)

// InventoryService resolves a destination to hotel candidates and fans out
// per-hotel offer lookups with bounded parallelism. Individual lookup
// failures are logged and dropped; they never abort the batch.
type InventoryService struct {
	client   domain.InventoryClient
	cache    domain.Cache
	cacheTTL time.Duration
	now      func() time.Time
}

func NewInventoryService(client domain.InventoryClient, cache domain.Cache, ttl time.Duration) *InventoryService {
	return &InventoryService{client: client, cache: cache, cacheTTL: ttl, now: time.Now}
}

// Search returns all successfully priced offers for the query's destination.
// ErrNoInventory when the destination yields no candidates; an empty slice
// (nil error) when candidates exist but every offer lookup failed.
func (s *InventoryService) Search(ctx context.Context, q domain.TravelQuery) ([]domain.HotelOffer, error) {
	if q.Destination == "" {
		return nil, domain.ErrNoInventory
	}
	params := s.searchParams(q)

	candidates, err := s.candidates(ctx, params.CityCode)
	if err != nil || len(candidates) == 0 {
		if err != nil {
			log.Warn().Err(err).Str("city", params.CityCode).Msg("hotel candidate lookup failed")
		}
		return nil, domain.ErrNoInventory
	}
	if len(candidates) > maxOfferHotels {
		candidates = candidates[:maxOfferHotels]
	}

	sem := semaphore.NewWeighted(offerWorkers)
	var wg sync.WaitGroup
	slots := make([]*domain.HotelOffer, len(candidates))

	for i, cand := range candidates {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			break // parent request cancelled; abandon the rest
		}
		wg.Add(1)
		go func(i int, cand domain.HotelSummary) {
			defer wg.Done()
			defer sem.Release(1)

			offer, err := s.client.HotelOffers(ctx, cand.ID, params)
			if err != nil {
				log.Warn().Str("hotel", cand.ID).Err(err).Msg("offer lookup failed")
				return
			}
			if offer.Hotel.Name == "" {
				offer.Hotel = cand
			}
			slots[i] = &offer
		}(i, cand)
	}
	wg.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	out := make([]domain.HotelOffer, 0, len(slots))
	for _, o := range slots {
		if o != nil {
			out = append(out, *o)
		}
	}
	return out, nil
}

// candidates is cache-aside over the city lookup: candidate lists change
// rarely and the upstream call is the expensive one.
func (s *InventoryService) candidates(ctx context.Context, cityCode string) ([]domain.HotelSummary, error) {
	key := fmt.Sprintf("city-hotels:%s", cityCode)
	var cached []domain.HotelSummary
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &cached); ok {
			return cached, nil
		}
	}
	hs, err := s.client.HotelsByCity(ctx, cityCode)
	if err != nil {
		return nil, err
	}
	if s.cache != nil && len(hs) > 0 {
		_ = s.cache.Set(ctx, key, hs, int(s.cacheTTL.Seconds()))
	}
	return hs, nil
}

func (s *InventoryService) searchParams(q domain.TravelQuery) domain.HotelSearchParams {
	now := midnight(s.now())

	checkIn := now.AddDate(0, 0, defaultCheckInDays)
	if t, err := time.ParseInLocation(isoDate, q.CheckIn, now.Location()); err == nil {
		checkIn = t
	}
	checkOut := checkIn.AddDate(0, 0, defaultStayNights)
	if t, err := time.ParseInLocation(isoDate, q.CheckOut, now.Location()); err == nil && t.After(checkIn) {
		checkOut = t
	}

	adults := domain.DefaultAdults
	if q.Guests != nil && q.Guests.Adults > 0 {
		adults = q.Guests.Adults
	}
	return domain.HotelSearchParams{
		CityCode:     strings.ToUpper(strings.TrimSpace(q.Destination)),
		CheckInDate:  checkIn.Format(isoDate),
		CheckOutDate: checkOut.Format(isoDate),
		Adults:       adults,
	}
}
