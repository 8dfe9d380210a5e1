package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/AngelCh415/adreport/internal/config"
	"github.com/AngelCh415/adreport/internal/httpx"
	"github.com/AngelCh415/adreport/internal/ingest"
	"github.com/AngelCh415/adreport/internal/metrics"
	"github.com/AngelCh415/adreport/internal/store"
	"github.com/AngelCh415/adreport/internal/utils"
)

func main() {
	// .env is optional outside local development
	_ = godotenv.Load()
	cfg := config.FromEnv()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", slog.String("err", err.Error()))
		os.Exit(1)
	}

	st, err := store.NewMemoryStore(cfg.SessionCapacity)
	if err != nil {
		logger.Error("session store", slog.String("err", err.Error()))
		os.Exit(1)
	}
	cl := ingest.NewHTTPClient(cfg.HTTPTimeout)
	fetcher := ingest.NewFetcher(cl, utils.NewBackoff(cfg.FetchBackoff, cfg.FetchRetries), cfg.MaxUploadBytes)
	pipe := ingest.NewPipeline(logger, ingest.NormalizeOptions{LenientMetrics: cfg.LenientMetrics})
	in := ingest.NewIngestor(pipe, fetcher, st, logger)
	mSvc := metrics.NewService(metrics.Defaults{
		Thresholds: metrics.Thresholds{TargetACOS: cfg.TargetACOS, MinClicks: cfg.MinClicks, MinOrders: cfg.MinOrders},
		FeePct:     cfg.FeePct,
	})

	r := httpx.NewRouter(logger, in, mSvc, cfg.MaxUploadBytes)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown", slog.String("err", err.Error()))
		}
	}()

	logger.Info("starting server", slog.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}
