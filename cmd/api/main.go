package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/bootstrap"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/http/handlers"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/http/httpapi"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/infra"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/infra/geoip"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "api")

	// Amounts go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open store")
	}
	defer closeStore()

	gateway, err := bootstrap.OpenGateway(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure payment gateway")
	}

	countries, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip database unavailable, country detection disabled")
	}
	defer countries.Close()

	app := handlers.NewApp(store, gateway, logger, cfg.JWTSecret, cfg.StoreTimeout)
	router := httpapi.NewRouter(app, httpapi.Options{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMin,
		DefaultLocale:      "en",
		CountryLookup:      countries.Lookup,
	})

	server := infra.NewHTTPServer(cfg, router)
	logger.Info().
		Str("addr", server.Addr()).
		Str("gateway", gateway.Name()).
		Bool("mock_mode", cfg.MockMode).
		Msg("api listening")
	if err := server.Run(ctx, cfg.HTTPIdleTimeout); err != nil {
		logger.Error().Err(err).Msg("http server failed")
	}
	logger.Info().Msg("server stopped")
}
