package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/bootstrap"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/cli"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/domain"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/infra"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := infra.NewLogger(cfg.AppEnv, "templectl")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := cli.Environment{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: logger,
		OpenStore: func(ctx context.Context) (domain.Store, func(), error) {
			return bootstrap.OpenStore(ctx, cfg, logger)
		},
		Migrate: func() error {
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required")
			}
			return infra.Migrate(cfg.DatabaseURL, logger)
		},
	}
	code := cli.Run(ctx, env, os.Args[1:])
	stop()
	os.Exit(code)
}
