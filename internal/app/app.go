// Package app assembles the summarization pipeline from configuration. The
// API server and the CLI share it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tweet-takeaways/internal/classify"
	"tweet-takeaways/internal/config"
	"tweet-takeaways/internal/domain/entity"
	"tweet-takeaways/internal/extract"
	"tweet-takeaways/internal/fallback"
	"tweet-takeaways/internal/infra/cache"
	"tweet-takeaways/internal/infra/fetcher"
	"tweet-takeaways/internal/infra/huggingface"
	"tweet-takeaways/internal/infra/ocr"
	"tweet-takeaways/internal/infra/screenshot"
	"tweet-takeaways/internal/infra/summarizer"
	"tweet-takeaways/internal/resilience/retry"
	"tweet-takeaways/internal/usecase/summarize"
)

// App holds the wired pipeline and the resources that need closing.
type App struct {
	Service    *summarize.Service
	Summarizer *summarizer.Client
	Fetcher    *fetcher.HTMLFetcher
	Cache      cache.Store
	Rotation   *fallback.Rotation

	closers []func() error
}

// New wires every collaborator. Configuration problems are returned as
// *entity.ConfigError.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{}

	classifier, err := classify.New(cfg.Domains)
	if err != nil {
		return nil, err
	}
	extractor, err := extract.New(cfg.Extract)
	if err != nil {
		return nil, &entity.ConfigError{Field: "extract", Err: err}
	}
	fetchCfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		return nil, &entity.ConfigError{Field: "FETCH_*", Err: err}
	}

	hf := huggingface.New(huggingface.Config{
		BaseURL:           cfg.HuggingFace.BaseURL,
		Token:             cfg.Credentials.HuggingFaceToken,
		RequestsPerSecond: cfg.HuggingFace.RequestsPerSecond,
		Burst:             cfg.HuggingFace.Burst,
	})
	candidates, err := summarizer.BuildCandidates(cfg.Models, cfg.Credentials, hf, cfg.Endpoints)
	if err != nil {
		return nil, err
	}
	client, err := summarizer.NewClient(cfg.Summarizer, candidates, logger)
	if err != nil {
		return nil, err
	}
	a.Summarizer = client

	a.Rotation = fallback.NewRotation(cfg.FallbackImages.Rotation, logger)
	images := fallback.NewResolver(cfg.FallbackImages.Images, a.Rotation, cfg.Server.BaseURL)

	store, err := a.openCache(cfg.Cache)
	if err != nil {
		return nil, err
	}
	a.Cache = store

	a.Fetcher = fetcher.New(fetchCfg, logger)

	deps := summarize.Dependencies{
		Classifier: classifier,
		Fetcher:    a.Fetcher,
		Extractor:  extractor,
		Summarizer: client,
		Images:     images,
		Cache:      store,
		Logger:     logger,
	}
	if cfg.Pipeline.OCREnabled {
		shotCfg, err := screenshot.LoadConfigFromEnv()
		if err != nil {
			return nil, &entity.ConfigError{Field: "SCREENSHOT_*", Err: err}
		}
		deps.Capturer = screenshot.NewRod(shotCfg, logger)
		deps.Recognizer = ocr.NewHuggingFace(hf, cfg.HuggingFace.OCRModel)
	}

	svc, err := summarize.NewService(cfg.Pipeline, deps)
	if err != nil {
		return nil, err
	}
	a.Service = svc

	logger.Info("pipeline ready",
		slog.Any("models", client.Models()),
		slog.String("cache", store.Backend()),
		slog.String("government_policy", string(cfg.Pipeline.GovernmentPolicy)),
		slog.Bool("ocr_enabled", cfg.Pipeline.OCREnabled),
		slog.Int("rotation_images", a.Rotation.Len()))
	return a, nil
}

// openCache picks Redis when a URL is configured, the in-process cache
// otherwise, and no cache when MaxEntries is zero.
func (a *App) openCache(cfg config.CacheConfig) (cache.Store, error) {
	switch {
	case cfg.RedisURL != "":
		r, err := cache.NewRedis(cfg.RedisURL, cfg.TTL)
		if err != nil {
			return nil, &entity.ConfigError{Field: "CACHE_REDIS_URL", Err: err}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		// Redis may still be starting next to us; refused dials are retried.
		if err := retry.WithBackoff(ctx, retry.DefaultConfig(), func() error { return r.Ping(ctx) }); err != nil {
			_ = r.Close()
			return nil, &entity.ConfigError{Field: "CACHE_REDIS_URL", Err: fmt.Errorf("ping: %w", err)}
		}
		a.closers = append(a.closers, r.Close)
		return r, nil
	case cfg.MaxEntries > 0:
		return cache.NewMemory(cfg.TTL, cfg.MaxEntries), nil
	default:
		return cache.Noop{}, nil
	}
}

// Close releases external connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
