package main

import (
	"context"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"slot-pricing-service/internal/adapters/cache"
	"slot-pricing-service/internal/adapters/geocode"
	"slot-pricing-service/internal/adapters/repositories"
	"slot-pricing-service/internal/adapters/routing"
	"slot-pricing-service/internal/api"
	"slot-pricing-service/internal/config"
	"slot-pricing-service/internal/platform/db"
	"slot-pricing-service/internal/platform/obs"
	"slot-pricing-service/internal/ports"
	"slot-pricing-service/internal/services"
)

// main is the application composition root. Concrete adapters (SQLite or
// Postgres, Redis, OSRM) are wired behind ports here and nowhere else.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using environment variables")
	}

	cfg, err := config.Load(config.Get("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	obs.SetupLogging(cfg.LogLevel, cfg.LogPretty)

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer conn.Close()

	dialect := db.DialectFor(cfg.DatabaseURL)
	if err := repositories.InitSchema(conn); err != nil {
		log.Fatal().Err(err).Msg("init schema")
	}
	if err := repositories.SeedProductsFromJSON(conn, cfg.SeedProductsPath, dialect); err != nil {
		log.Fatal().Err(err).Str("path", cfg.SeedProductsPath).Msg("seed products")
	}

	catalog := repositories.NewSQLCatalogRepository(conn, dialect)
	stops := repositories.NewSQLStopRepository(conn, dialect)
	quotes := repositories.NewSQLQuoteRepository(conn, dialect)
	settingsStore := repositories.NewSQLSettingsStore(conn, dialect)

	settings := services.NewSettingsService(settingsStore)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := settings.Load(ctx, cfg.ScoringDefaults); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("load settings")
	}
	cancel()

	var slotCache ports.SlotCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, slot cache disabled")
		} else {
			slotCache = cache.NewRedisSlotCache(client)
			log.Info().Str("addr", cfg.RedisAddr).Msg("redis slot cache enabled")
		}
	}

	// OSRM when configured, straight-line approximation otherwise.
	var provider ports.DistanceProvider
	providerName := "haversine"
	if cfg.OSRMBaseURL != "" {
		osrm, err := routing.NewOSRMProvider(cfg.OSRMBaseURL, cache.NewSQLDistanceCache(conn, dialect))
		if err != nil {
			log.Fatal().Err(err).Msg("init osrm provider")
		}
		provider = osrm
		providerName = "osrm"
	} else {
		provider = routing.NewHaversineProvider()
	}

	geocoder := geocode.NewStubGeocoder(
		cfg.GeocodeCenterLat, cfg.GeocodeCenterLon,
		cache.NewSQLGeocodeCache(conn, dialect),
	)

	metrics, err := obs.NewMetrics(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("register metrics")
	}

	router := api.NewRouter(api.Deps{
		Products:    catalog,
		Carts:       catalog,
		Locations:   catalog,
		Stops:       stops,
		Quotes:      quotes,
		Maintenance: settingsStore,
		Geocoder:    geocoder,

		Settings: settings,
		Slots: &services.SlotService{
			Stops:    stops,
			Usage:    quotes,
			Cache:    slotCache,
			Settings: settings,
			Now:      time.Now,
		},
		Quoter: &services.QuoteService{
			Products:  catalog,
			Carts:     catalog,
			Locations: catalog,
			Stops:     stops,
			Usage:     quotes,
			Quotes:    quotes,
			Settings:  settings,
			Now:       time.Now,
		},
		Ledger: &services.ConfirmationLedger{
			Quotes:   quotes,
			Settings: settings,
			Now:      time.Now,
		},
		Routing: &services.RoutingService{Provider: provider, Name: providerName},

		Metrics: metrics,
		Now:     time.Now,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Info().Str("addr", srv.Addr).Msg("server listening")
	log.Fatal().Err(srv.ListenAndServe()).Msg("server stopped")
}
