package amadeus

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"tripchat/internal/adapters/observability"
	"tripchat/internal/domain"
)

// Client talks to the hotel inventory API: city -> candidate hotels and
// hotel -> priced offers for a stay.
type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: base,
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- wire shapes ----

type hotelListResponse struct {
	Data []struct {
		HotelID string `json:"hotelId"`
		Name    string `json:"name"`
		Rating  string `json:"rating"`
		GeoCode *struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"geoCode"`
		Address *struct {
			Lines       []string `json:"lines"`
			CityName    string   `json:"cityName"`
			CountryCode string   `json:"countryCode"`
		} `json:"address"`
		Amenities []string `json:"amenities"`
	} `json:"data"`
}

type offersResponse struct {
	Data []struct {
		Hotel struct {
			HotelID string `json:"hotelId"`
			Name    string `json:"name"`
		} `json:"hotel"`
		Offers []struct {
			Room struct {
				Type        string `json:"type"`
				Description struct {
					Text string `json:"text"`
				} `json:"description"`
			} `json:"room"`
			Price struct {
				Total    string `json:"total"`
				Currency string `json:"currency"`
			} `json:"price"`
			Policies *struct {
				Cancellations []struct {
					Description struct {
						Text string `json:"text"`
					} `json:"description"`
				} `json:"cancellations"`
			} `json:"policies"`
		} `json:"offers"`
	} `json:"data"`
}

// ---- Public API ----

func (c *Client) HotelsByCity(ctx context.Context, cityCode string) ([]domain.HotelSummary, error) {
	u := fmt.Sprintf("%s/reference-data/locations/hotels/by-city?cityCode=%s",
		c.base, url.QueryEscape(cityCode))

	var raw hotelListResponse
	if err := c.get(ctx, u, "hotels_by_city", &raw); err != nil {
		return nil, err
	}

	out := make([]domain.HotelSummary, 0, len(raw.Data))
	for _, h := range raw.Data {
		hs := domain.HotelSummary{ID: h.HotelID, Name: h.Name, Amenities: h.Amenities}
		if r, err := strconv.Atoi(h.Rating); err == nil && r > 0 {
			hs.Rating = &r
		}
		if h.GeoCode != nil {
			hs.Coords = &domain.Coords{Lat: h.GeoCode.Latitude, Lon: h.GeoCode.Longitude}
		}
		if h.Address != nil {
			if addr := strings.Join(h.Address.Lines, ", "); addr != "" {
				hs.Address = &addr
			}
		}
		out = append(out, hs)
	}
	return out, nil
}

func (c *Client) HotelOffers(ctx context.Context, hotelID string, p domain.HotelSearchParams) (domain.HotelOffer, error) {
	q := url.Values{}
	q.Set("hotelIds", hotelID)
	q.Set("checkInDate", p.CheckInDate)
	q.Set("checkOutDate", p.CheckOutDate)
	q.Set("adults", strconv.Itoa(p.Adults))
	u := fmt.Sprintf("%s/shopping/hotel-offers?%s", c.base, q.Encode())

	var raw offersResponse
	if err := c.get(ctx, u, "hotel_offers", &raw); err != nil {
		return domain.HotelOffer{}, err
	}
	if len(raw.Data) == 0 {
		return domain.HotelOffer{}, ErrNotFound
	}

	d := raw.Data[0]
	offer := domain.HotelOffer{Hotel: domain.HotelSummary{ID: d.Hotel.HotelID, Name: d.Hotel.Name}}
	for _, o := range d.Offers {
		ro := domain.RoomOffer{
			Type:        o.Room.Type,
			Description: o.Room.Description.Text,
			Total:       o.Price.Total,
			Currency:    o.Price.Currency,
		}
		if o.Policies != nil && len(o.Policies.Cancellations) > 0 {
			if txt := o.Policies.Cancellations[0].Description.Text; txt != "" {
				ro.CancellationPolicy = &txt
			}
		}
		offer.Rooms = append(offer.Rooms, ro)
	}
	return offer, nil
}

// ---- Internals ----

var (
	ErrNotFound     = errors.New("amadeus: not found")
	ErrUnauthorized = errors.New("amadeus: unauthorized")
	ErrForbidden    = errors.New("amadeus: forbidden")
)

// get performs a GET with client-side rate limiting, retries, and JSON
// decode into out. Retries on 429 and transient 5xx, honoring Retry-After
// when provided.
func (c *Client) get(ctx context.Context, url, endpoint string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	start := time.Now()
	var lastErr error
	for i := 0; i < 4; i++ {
		// build a fresh request each attempt
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("X-API-Key", c.key)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "tripchat/1.0")

		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			observability.ObserveExternal("amadeus", endpoint, 0, time.Since(start))
			return lastErr
		}

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusAccepted:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			observability.ObserveExternal("amadeus", endpoint, resp.StatusCode, time.Since(start))
			return err

		case http.StatusNoContent:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			observability.ObserveExternal("amadeus", endpoint, resp.StatusCode, time.Since(start))
			return nil

		case http.StatusNotFound:
			resp.Body.Close()
			observability.ObserveExternal("amadeus", endpoint, resp.StatusCode, time.Since(start))
			return ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			observability.ObserveExternal("amadeus", endpoint, resp.StatusCode, time.Since(start))
			return ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			observability.ObserveExternal("amadeus", endpoint, resp.StatusCode, time.Since(start))
			return ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			// Prefer server-provided Retry-After; otherwise exponential backoff.
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			observability.ObserveExternal("amadeus", endpoint, resp.StatusCode, time.Since(start))
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			observability.ObserveExternal("amadeus", endpoint, resp.StatusCode, time.Since(start))
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if
// absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential backoff delay with concurrency-safe jitter.
// Base doubles each attempt (200ms, 400ms, 800ms...), with up to +50% random
// jitter to avoid thundering herds.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
