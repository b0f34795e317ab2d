package main

import (
	"context"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"smarttravel/internal/adapters/memcache"
	"smarttravel/internal/adapters/observability"
	"smarttravel/internal/adapters/places"
	redisad "smarttravel/internal/adapters/redis"
	"smarttravel/internal/app"
	"smarttravel/internal/domain"
	"smarttravel/internal/shared"
	mysqlrepo "smarttravel/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Int("destinations", len(cfg.WarmDestinations)).
		Int("workers", cfg.WarmWorkers).
		Dur("ttl", cfg.CacheTTL).
		Msg("warmer starting")

	if cfg.RedisAddr == "" {
		log.Warn().Msg("REDIS_ADDR empty: warming an in-memory cache only exercises the upstreams")
	}
	if cfg.CacheTTL <= 0 {
		log.Fatal().Msg("CACHE_TTL_SECONDS must be positive to warm anything")
	}

	client, err := places.New(cfg.PlacesBase, cfg.PlacesKey, cfg.PlacesRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize places client")
	}

	var cache domain.Cache = memcache.New(cfg.CacheTTL, 10*time.Minute)
	if cfg.RedisAddr != "" {
		cache = redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	}
	provider := app.NewCachedPlaces(client, cache, cfg.CacheTTL)

	var insights domain.InsightRepository
	if cfg.MySQLDSN != "" {
		if db, err := mysqlrepo.Open(ctx, cfg.MySQLDSN); err != nil {
			log.Warn().Err(err).Msg("insight log disabled")
		} else {
			insights = mysqlrepo.New(db)
		}
	}

	warm := app.NewWarmService(app.NewPlaceFetcher(provider, cfg.MaxResults, cfg.PhotoDelay), provider, insights)

	workers := cfg.WarmWorkers
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup

	for _, dest := range cfg.WarmDestinations {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(destination string) {
			defer wg.Done()
			defer sem.Release(1)

			start := time.Now()
			if err := warm.WarmDestination(ctx, destination); err != nil {
				log.Warn().Str("destination", destination).Err(err).Msg("warm failed")
				return
			}
			log.Info().Str("destination", destination).Dur("took", time.Since(start)).Msg("warm ok")
		}(dest)
	}

	wg.Wait()
	log.Info().Msg("warming completed")
}
