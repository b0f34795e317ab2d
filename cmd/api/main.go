package main

import (
	"context"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"smarttravel/internal/adapters/gemini"
	server "smarttravel/internal/adapters/http_server"
	"smarttravel/internal/adapters/memcache"
	"smarttravel/internal/adapters/observability"
	"smarttravel/internal/adapters/places"
	redisad "smarttravel/internal/adapters/redis"
	"smarttravel/internal/adapters/sentiment"
	"smarttravel/internal/app"
	"smarttravel/internal/domain"
	"smarttravel/internal/shared"
	mysqlrepo "smarttravel/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// upstreams
	placesClient, err := places.New(cfg.PlacesBase, cfg.PlacesKey, cfg.PlacesRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize places client")
	}
	gen, err := gemini.New(ctx, cfg.GeminiKey, cfg.GeminiModel, cfg.GeminiBase)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize gemini client")
	}
	clf, err := sentiment.New(cfg.SentimentURL, cfg.SentimentKey, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize sentiment client")
	}

	// deps
	provider := app.NewCachedPlaces(placesClient, newCache(cfg), cfg.CacheTTL)
	insights := openInsights(ctx, cfg)
	degraded := app.DegradeHook(observability.ObserveDegraded)

	fetcher := app.NewPlaceFetcher(provider, cfg.MaxResults, cfg.PhotoDelay).WithDegradeHook(degraded)
	analyzer := app.NewSentimentAnalyzer(provider, clf, app.NewTermFrequencyExtractor(), gen).WithDegradeHook(degraded)

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Itinerary: app.NewItineraryService(fetcher, gen),
		Sentiment: app.NewSentimentService(fetcher, provider, analyzer, insights),
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 10 * time.Second}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

func newCache(cfg shared.Config) domain.Cache {
	if cfg.RedisAddr != "" {
		log.Info().Str("addr", cfg.RedisAddr).Msg("using redis cache")
		return redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	}
	log.Info().Msg("REDIS_ADDR empty, using in-memory cache")
	return memcache.New(cfg.CacheTTL, 10*time.Minute)
}

// openInsights returns nil when MySQL is not configured or unreachable.
func openInsights(ctx context.Context, cfg shared.Config) domain.InsightRepository {
	if cfg.MySQLDSN == "" {
		return nil
	}
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	db, err := mysqlrepo.Open(pctx, cfg.MySQLDSN)
	if err != nil {
		log.Warn().Err(err).Msg("insight log disabled")
		return nil
	}
	log.Info().Msg("database connection ok")
	return mysqlrepo.New(db)
}
