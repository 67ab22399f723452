package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"tripchat/internal/adapters/amadeus"
	"tripchat/internal/adapters/observability"
	redisad "tripchat/internal/adapters/redis"
	"tripchat/internal/shared"
)

// Pre-warms the city -> hotel-candidates cache for the configured cities so
// first chat turns against popular destinations skip the upstream lookup.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	if len(cfg.WarmCities) == 0 {
		log.Warn().Msg("WARM_CITIES is empty; nothing to do")
		return
	}
	log.Info().
		Str("base", cfg.AmadeusBase).
		Int("workers", cfg.WarmWorkers).
		Int("cities", len(cfg.WarmCities)).
		Msg("cache warmer starting")

	client, err := amadeus.New(cfg.AmadeusBase, cfg.AmadeusKey, cfg.AmadeusRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize inventory client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	sem := semaphore.NewWeighted(int64(cfg.WarmWorkers))
	var wg sync.WaitGroup

	for _, city := range cfg.WarmCities {
		city := strings.ToUpper(city) // cache keys are upper-cased city codes

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(city string) {
			defer wg.Done()
			defer sem.Release(1)

			hotels, err := client.HotelsByCity(ctx, city)
			if err != nil {
				log.Warn().Str("city", city).Err(err).Msg("warm failed")
				return
			}
			if len(hotels) == 0 {
				log.Info().Str("city", city).Msg("no candidates")
				return
			}
			key := fmt.Sprintf("city-hotels:%s", city)
			if err := cache.Set(ctx, key, hotels, int(cfg.CacheTTL.Seconds())); err != nil {
				log.Warn().Str("city", city).Err(err).Msg("cache set failed")
				return
			}
			log.Info().Str("city", city).Int("hotels", len(hotels)).Msg("warm ok")
		}(city)
	}

	wg.Wait()
	log.Info().Msg("warmup completed")
}
