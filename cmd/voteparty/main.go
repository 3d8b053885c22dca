package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voteparty/internal/adapters/cli"
	"voteparty/internal/config"
	"voteparty/internal/infrastructure/logging"
	"voteparty/internal/infrastructure/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	log := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	shutdown, err := telemetry.Setup(ctx, "voteparty", cfg.OTelEndpoint)
	if err != nil {
		log.Error().Err(err).Msg("telemetry setup")
		return 1
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			log.Warn().Err(err).Msg("telemetry shutdown")
		}
	}()

	app, err := cli.Open(ctx, cfg, os.Stdout, log)
	if err != nil {
		log.Error().Err(err).Msg("startup failed")
		return 1
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn().Err(err).Msg("close session store")
		}
	}()

	if err := app.Run(ctx, args); err != nil {
		if ctx.Err() != nil {
			return 130
		}
		log.Debug().Err(err).Msg("command failed")
		fmt.Fprintln(os.Stderr, app.Explain(err))
		if errors.Is(err, cli.ErrUsage) {
			return 2
		}
		return 1
	}
	return 0
}
