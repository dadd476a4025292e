// Command api serves the tweet-takeaways HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tweet-takeaways/internal/app"
	"tweet-takeaways/internal/config"
	hhttp "tweet-takeaways/internal/handler/http"
	"tweet-takeaways/internal/handler/http/middleware"
	"tweet-takeaways/internal/observability/logging"
	"tweet-takeaways/internal/observability/tracing"
	envconfig "tweet-takeaways/pkg/config"
)

func main() {
	logger, closeLog := logging.New(logging.OptionsFromEnv())
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server failed", slog.Any("error", err))
		_ = closeLog.Close()
		os.Exit(1)
	}
	_ = closeLog.Close()
}

func getVersion() string {
	return envconfig.GetEnvString("VERSION", "dev")
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	corsCfg, err := middleware.LoadCORSConfig(logger)
	if err != nil {
		return fmt.Errorf("load CORS configuration: %w", err)
	}

	shutdownTracing := tracing.Setup(envconfig.GetEnvFloat("TRACE_SAMPLE_RATIO", 1))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	pipeline, err := app.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("wire pipeline: %w", err)
	}
	defer func() {
		if err := pipeline.Close(); err != nil {
			logger.Error("failed to close resources", slog.Any("error", err))
		}
	}()

	limiter := hhttp.NewRateLimiter(cfg.Server.RateLimitRequests, cfg.Server.RateLimitWindow)
	limiter.TrustForwarded = cfg.Server.TrustForwarded

	version := getVersion()
	handler := hhttp.NewRouter(hhttp.RouterConfig{
		Pipeline: pipeline.Service,
		Health: &hhttp.HealthHandler{
			Version:          version,
			Models:           pipeline.Summarizer,
			Cache:            pipeline.Cache,
			Circuits:         []hhttp.CircuitReporter{pipeline.Fetcher, pipeline.Summarizer},
			GovernmentPolicy: string(cfg.Pipeline.GovernmentPolicy),
			OCREnabled:       cfg.Pipeline.OCREnabled,
		},
		StaticDir:      cfg.Server.StaticDir,
		CORS:           corsCfg,
		RateLimiter:    limiter,
		RequestTimeout: cfg.Server.RequestTimeout,
		Logger:         logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version),
			slog.String("base_url", cfg.Server.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
