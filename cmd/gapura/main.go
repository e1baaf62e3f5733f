package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"gapura/pkg/core"
	"gapura/pkg/gateway"
)

func main() {
	cfg, err := core.LoadConfig()
	if err != nil {
		logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		logger.Fatal().Err(err).Msg("load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	logger.Info().
		Str("default_env", cfg.DefaultEnvironment.String()).
		Str("auth_mode", cfg.AuthMode).
		Str("credential_policy", cfg.CredentialPolicy).
		Str("mainnet_key", core.MaskKey(cfg.MainnetKeys.APIKey)).
		Str("demo_key", core.MaskKey(cfg.DemoKeys.APIKey)).
		Msg("configuration loaded")

	server, err := gateway.NewServer(cfg, gateway.WithLogger(logger))
	if err != nil {
		logger.Fatal().Err(err).Msg("create server")
	}
	defer server.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Serve(ctx); err != nil {
		logger.Fatal().Err(err).Msg("serve")
	}
}
