package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/certprobe/internal/app"
	"github.com/hamed0406/certprobe/internal/config"
	"github.com/hamed0406/certprobe/internal/httpapi"
	"github.com/hamed0406/certprobe/internal/logging"
	"github.com/hamed0406/certprobe/internal/scheduler"
)

func main() {
	loaded := config.LoadEnvFiles()
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	logger.Info("env_files", zap.Strings("loaded", loaded))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := app.Build(ctx, cfg, logger)

	// sweeps get extra room beyond the probe for delivery retries
	sweeper := scheduler.NewSweeper(logger, a.Handler, cfg.TargetURLs,
		cfg.SweepInterval, cfg.ProbeTimeout+30*time.Second, cfg.BatchConcurrency)
	go sweeper.Run(ctx)

	api := httpapi.NewServer(logger, a.Handler, a.Checks)
	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: api.Router(httpapi.Options{
			APIKeys:        cfg.APIKeys,
			AllowedOrigins: cfg.AllowedOrigins,
			RateRPM:        cfg.RateRPM,
			RateBurst:      cfg.RateBurst,
			TrustedProxies: cfg.TrustedProxies,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("api_listen", zap.String("addr", cfg.Addr), zap.Bool("auth", len(cfg.APIKeys) > 0))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("api_listen_failed", zap.Error(err))
	}
	logger.Info("api_stopped")
}
