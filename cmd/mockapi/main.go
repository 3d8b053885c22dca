package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"voteparty/internal/adapters/mockapi"
	"voteparty/internal/config"
	"voteparty/internal/infrastructure/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logging.New(os.Stderr, "info", "console")
		boot.Fatal().Err(err).Msg("config")
	}
	log := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	if cfg.Credential.Secret == "" {
		log.Warn().Msg("VOTEPARTY_CREDENTIAL_SECRET is empty, moderator routes will reject every token")
	}
	srv, err := mockapi.New(cfg.Credential.Secret, mockapi.WithLogger(log))
	if err != nil {
		log.Fatal().Err(err).Msg("mock api")
	}
	e := srv.Echo()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + strconv.Itoa(cfg.MockPort)
	go func() {
		log.Info().Str("addr", addr).Msg("mock api listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("mock api stopped")
			stop()
		}
	}()

	<-ctx.Done()
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		log.Warn().Err(err).Msg("shutdown")
	}
}
