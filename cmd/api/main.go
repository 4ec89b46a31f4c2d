package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nabil-dev/chathub/internal/config"
	"github.com/nabil-dev/chathub/internal/handler"
	"github.com/nabil-dev/chathub/internal/handler/history"
	"github.com/nabil-dev/chathub/internal/handler/upload"
	"github.com/nabil-dev/chathub/internal/handler/ws"
	"github.com/nabil-dev/chathub/internal/service/broadcast"
	"github.com/nabil-dev/chathub/internal/service/coordinator"
	"github.com/nabil-dev/chathub/internal/service/presence"
	"github.com/nabil-dev/chathub/internal/service/registry"
	"github.com/nabil-dev/chathub/internal/service/roomlog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	setupLogger()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("failed to load .env file, continuing with system environment only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Chat core: registry, room logs, presence, fan-out, coordinator.
	reg := registry.New(cfg.Chat.DefaultRoom)
	logs := roomlog.NewStore(cfg.Chat.HistoryLimit)
	pres := presence.NewTracker()
	bcast := broadcast.New(reg, cfg.Chat.SendBuffer)
	coord := coordinator.New(reg, logs, pres, bcast, cfg.Chat.DefaultRoom)

	uploadHandler, err := upload.New(cfg.Upload.Dir, cfg.Upload.MaxBytes)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize upload storage")
	}

	router := handler.NewRouter(cfg,
		ws.New(coord, bcast),
		history.New(logs, reg, cfg.Chat.DefaultRoom, cfg.Chat.PageSize),
		uploadHandler,
	)

	startServer(ctx, cfg.Server, router)
}

func setupLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if raw := strings.TrimSpace(os.Getenv("LOG_LEVEL")); raw != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(raw))
		if err == nil {
			level = parsed
		}
	}

	log.Logger = zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info().Str("addr", serverCfg.Addr).Msg("chat server listening")
	if err := runServer(ctx, srv); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
