// Package bootstrap assembles the store and payment gateway shared by the
// api, worker and templectl binaries.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/adapter/memory"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/adapter/repo"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/domain"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/infra"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/payment"
)

// OpenStore returns the Postgres store, migrated to the latest schema. In
// mock mode without DATABASE_URL it returns the seeded in-memory store
// instead. The returned close func releases the pool.
func OpenStore(ctx context.Context, cfg *infra.Config, logger zerolog.Logger) (domain.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		if !cfg.MockMode {
			return nil, nil, fmt.Errorf("DATABASE_URL is required")
		}
		store, err := memory.NewSeeded()
		if err != nil {
			return nil, nil, fmt.Errorf("seed memory store: %w", err)
		}
		logger.Warn().Msg("DATABASE_URL not set, using seeded in-memory store")
		return store, func() {}, nil
	}

	if err := infra.Migrate(cfg.DatabaseURL, logger); err != nil {
		return nil, nil, err
	}
	pool, err := infra.NewDBPool(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	runner := infra.NewSQLRunner(pool, logger)
	return repo.NewStore(runner, cfg.StoreTimeout), pool.Close, nil
}

// OpenGateway returns the mock gateway in mock mode and the Razorpay client
// otherwise.
func OpenGateway(cfg *infra.Config) (payment.Gateway, error) {
	if cfg.MockMode {
		return payment.NewMockGateway(), nil
	}
	return payment.NewRazorpayGateway(payment.RazorpayOptions{
		KeyID:     cfg.RazorpayKeyID,
		KeySecret: cfg.RazorpayKeySecret,
		BaseURL:   cfg.RazorpayBaseURL,
	})
}
