// Package summarize runs the URL-to-summary pipeline: policy gate, fetch,
// preview metadata, heuristic scrape, remote summarization, and the
// terminal fallbacks. Every path ends in a displayable result.
package summarize

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"tweet-takeaways/internal/domain/entity"
	"tweet-takeaways/internal/extract"
	"tweet-takeaways/internal/fallback"
	"tweet-takeaways/internal/observability/logging"
	"tweet-takeaways/internal/observability/metrics"
	"tweet-takeaways/internal/observability/tracing"
	"tweet-takeaways/internal/resilience/retry"
	"tweet-takeaways/internal/utils/text"
)

// Terminal stages reported in SummaryResult.Stage and metrics.
const (
	StageCookieGated     = "cookie_gated"
	StageNewsGated       = "news_gated"
	StageSocialGated     = "social_gated"
	StageGovernmentGated = "government_gated"
	StageFetchFailed     = "fetch_failed"
	StageMetadata        = "metadata"
	StageHeuristic       = "heuristic"
	StageRemote          = "remote"
	StageOCR             = "ocr"
	StageNothingReadable = "nothing_readable"
	StageForcedRemote    = "forced_remote"
	StageForcedFailed    = "forced_failed"
)

// HostClassifier maps hostnames to policies and imagery rules.
type HostClassifier interface {
	Classify(hostname string) entity.DomainPolicy
	PrefersCaption(hostname string) bool
	UsesRotatingImagery(hostname string) bool
}

// PageFetcher retrieves a page. Failures are *entity.FetchError.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (entity.Page, error)
}

// Summarizer is the remote summarization client.
type Summarizer interface {
	PreparePrompt(source string) string
	Summarize(ctx context.Context, source string) (string, error)
}

// ImageResolver maps a fallback category to an image URL.
type ImageResolver interface {
	Resolve(category fallback.Category) string
}

// Capturer renders a page to an image.
type Capturer interface {
	Capture(ctx context.Context, url string) ([]byte, error)
}

// Recognizer extracts text from an image.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// Dependencies are the collaborators of a Service. Cache, Capturer, and
// Recognizer are optional.
type Dependencies struct {
	Classifier HostClassifier
	Fetcher    PageFetcher
	Extractor  *extract.Extractor
	Summarizer Summarizer
	Images     ImageResolver
	Cache      Cache
	Capturer   Capturer
	Recognizer Recognizer
	Logger     *slog.Logger
}

// Service is the pipeline orchestrator. It holds no per-request state and
// is safe for concurrent use.
type Service struct {
	cfg        Config
	classifier HostClassifier
	fetcher    PageFetcher
	extractor  *extract.Extractor
	summarizer Summarizer
	images     ImageResolver
	capturer   Capturer
	recognizer Recognizer
	coalescer  *coalescer
	logger     *slog.Logger
}

// NewService validates cfg and wires the collaborators.
func NewService(cfg Config, deps Dependencies) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &entity.ConfigError{Field: "pipeline", Err: err}
	}
	switch {
	case deps.Classifier == nil:
		return nil, &entity.ConfigError{Field: "pipeline", Err: errors.New("classifier is required")}
	case deps.Fetcher == nil:
		return nil, &entity.ConfigError{Field: "pipeline", Err: errors.New("fetcher is required")}
	case deps.Extractor == nil:
		return nil, &entity.ConfigError{Field: "pipeline", Err: errors.New("extractor is required")}
	case deps.Summarizer == nil:
		return nil, &entity.ConfigError{Field: "pipeline", Err: errors.New("summarizer is required")}
	case deps.Images == nil:
		return nil, &entity.ConfigError{Field: "pipeline", Err: errors.New("image resolver is required")}
	}
	if cfg.OCREnabled && (deps.Capturer == nil || deps.Recognizer == nil) {
		return nil, &entity.ConfigError{Field: "OCR_ENABLED", Err: errors.New("OCR needs a capturer and a recognizer")}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:        cfg,
		classifier: deps.Classifier,
		fetcher:    deps.Fetcher,
		extractor:  deps.Extractor,
		summarizer: deps.Summarizer,
		images:     deps.Images,
		capturer:   deps.Capturer,
		recognizer: deps.Recognizer,
		coalescer:  newCoalescer(deps.Cache, cfg.RemoteBudget, logger),
		logger:     logger,
	}, nil
}

// run carries the per-request values through the stages.
type run struct {
	req    entity.SummarizationRequest
	policy entity.DomainPolicy
	start  time.Time
	logger *slog.Logger
}

// Summarize runs the full pipeline for req. It always returns a result.
func (s *Service) Summarize(ctx context.Context, req entity.SummarizationRequest) entity.SummaryResult {
	ctx, span := tracing.GetTracer().Start(ctx, "summarize.pipeline")
	defer span.End()

	r := s.newRun(ctx, req)
	span.SetAttributes(
		attribute.String("url.full", req.URL()),
		attribute.String("summarize.policy", r.policy.String()))

	res := s.pipeline(ctx, r)

	span.SetAttributes(
		attribute.String("summarize.stage", res.Stage),
		attribute.Bool("summarize.used_remote_model", res.UsedRemoteModel))
	return s.finish(ctx, r, res)
}

// ForceRemote skips the policy gate and the metadata and heuristic
// shortcuts and goes straight to remote summarization.
func (s *Service) ForceRemote(ctx context.Context, req entity.SummarizationRequest) entity.SummaryResult {
	ctx, span := tracing.GetTracer().Start(ctx, "summarize.forced")
	defer span.End()

	r := s.newRun(ctx, req)
	span.SetAttributes(attribute.String("url.full", req.URL()))

	page, err := s.fetcher.Fetch(ctx, req.URL())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		r.logger.WarnContext(ctx, "fetch failed", slog.String("error", err.Error()))
		return s.finish(ctx, r, s.fixed(r, StageForcedFailed, s.cfg.Messages.ForcedFailure, ""))
	}

	meta := s.extractor.Metadata(page.HTML)
	source := s.remoteSource(r, page, meta)
	if source != "" {
		if summary, err := s.remote(ctx, r, source); err == nil {
			return s.finish(ctx, r, entity.SummaryResult{
				Summary:         summary,
				UsedRemoteModel: true,
				OGImage:         s.image(r, page.URL, meta.OGImage),
				Stage:           StageForcedRemote,
			})
		}
	}
	return s.finish(ctx, r, s.fixed(r, StageForcedFailed, s.cfg.Messages.ForcedFailure, s.image(r, page.URL, meta.OGImage)))
}

func (s *Service) newRun(ctx context.Context, req entity.SummarizationRequest) *run {
	policy := s.classifier.Classify(req.Host())
	logger := logging.WithRequestID(ctx, s.logger).With(
		slog.String("url", req.URL()),
		slog.String("host", req.Host()),
		slog.String("policy", policy.String()))
	logger.InfoContext(ctx, "pipeline started")
	return &run{req: req, policy: policy, start: time.Now(), logger: logger}
}

func (s *Service) pipeline(ctx context.Context, r *run) entity.SummaryResult {
	if res, gated := s.gate(ctx, r); gated {
		return res
	}

	page, err := s.fetcher.Fetch(ctx, r.req.URL())
	if err != nil {
		r.logger.WarnContext(ctx, "fetch failed", slog.String("error", err.Error()))
		img := s.images.Resolve(fallback.CategoryWeird)
		if s.classifier.UsesRotatingImagery(r.req.Host()) {
			img = s.images.Resolve(fallback.CategoryRotating)
		}
		return entity.SummaryResult{Summary: s.cfg.Messages.WeirdLink, OGImage: img, Stage: StageFetchFailed}
	}
	r.logger.InfoContext(ctx, "stage advanced", slog.String("stage", "fetched"), slog.Int("html_bytes", len(page.HTML)))

	meta := s.extractor.Metadata(page.HTML)
	image := s.image(r, page.URL, meta.OGImage)

	if desc := s.description(r, meta); text.CountRunes(desc) >= s.cfg.MinDescriptionChars {
		return entity.SummaryResult{Summary: text.Cap(desc, s.cfg.DisplayCap), OGImage: image, Stage: StageMetadata}
	}
	r.logger.InfoContext(ctx, "stage advanced", slog.String("stage", "metadata_insufficient"))

	if body := s.extractor.BodyText(page.HTML); text.CountRunes(body) >= s.cfg.MinScrapeChars {
		return entity.SummaryResult{Summary: text.Cap(body, s.cfg.DisplayCap), OGImage: image, Stage: StageHeuristic}
	}
	r.logger.InfoContext(ctx, "stage advanced", slog.String("stage", "heuristic_insufficient"))

	if source := s.remoteSource(r, page, meta); source != "" {
		summary, err := s.remote(ctx, r, source)
		if err == nil {
			return entity.SummaryResult{Summary: summary, UsedRemoteModel: true, OGImage: image, Stage: StageRemote}
		}
		r.logger.WarnContext(ctx, "remote summarization exhausted", slog.String("error", err.Error()))
	} else {
		r.logger.InfoContext(ctx, "no source text for remote summarization")
	}

	if s.cfg.OCREnabled {
		if summary, ok := s.ocr(ctx, r); ok {
			return entity.SummaryResult{Summary: summary, UsedRemoteModel: true, OGImage: image, Stage: StageOCR}
		}
	}

	return entity.SummaryResult{Summary: s.cfg.Messages.NothingReadable, OGImage: image, Stage: StageNothingReadable}
}

// gate answers gated policies without summarizing.
func (s *Service) gate(ctx context.Context, r *run) (entity.SummaryResult, bool) {
	switch r.policy {
	case entity.PolicyCookieGated:
		return s.fixed(r, StageCookieGated, s.cfg.Messages.CookieGated, ""), true
	case entity.PolicyGovernment:
		if s.cfg.GovernmentPolicy == GovernmentSummarize {
			return entity.SummaryResult{}, false
		}
		return s.fixed(r, StageGovernmentGated, s.cfg.Messages.Government, ""), true
	case entity.PolicyNews:
		return s.fixed(r, StageNewsGated, s.cfg.Messages.News, s.previewImage(ctx, r)), true
	case entity.PolicySocial:
		return s.fixed(r, StageSocialGated, s.cfg.Messages.Social, s.previewImage(ctx, r)), true
	}
	return entity.SummaryResult{}, false
}

// previewImage fetches a gated page only for its og:image. Failures are
// not reported.
func (s *Service) previewImage(ctx context.Context, r *run) string {
	if !s.cfg.GatedPreviewFetch {
		return ""
	}
	page, err := s.fetcher.Fetch(ctx, r.req.URL())
	if err != nil {
		r.logger.DebugContext(ctx, "preview fetch failed", slog.String("error", err.Error()))
		return ""
	}
	return extract.ResolveImageURL(page.URL, s.extractor.Metadata(page.HTML).OGImage)
}

// fixed builds a message result. extracted is an absolute page image or "".
func (s *Service) fixed(r *run, stage, message, extracted string) entity.SummaryResult {
	img := extracted
	if img == "" || s.classifier.UsesRotatingImagery(r.req.Host()) {
		img = s.images.Resolve(s.category(r))
	}
	return entity.SummaryResult{Summary: message, OGImage: img, Stage: stage}
}

// image picks the extracted preview image unless it is missing or the host
// is known for unreliable imagery.
func (s *Service) image(r *run, pageURL, ogImage string) string {
	if s.classifier.UsesRotatingImagery(r.req.Host()) {
		return s.images.Resolve(fallback.CategoryRotating)
	}
	if img := extract.ResolveImageURL(pageURL, ogImage); img != "" {
		return img
	}
	return s.images.Resolve(s.category(r))
}

func (s *Service) category(r *run) fallback.Category {
	host := r.req.Host()
	switch {
	case s.classifier.UsesRotatingImagery(host):
		return fallback.CategoryRotating
	case r.policy == entity.PolicyNone && s.classifier.PrefersCaption(host):
		return fallback.CategorySocial
	}
	return fallback.ForPolicy(r.policy)
}

func (s *Service) description(r *run, meta entity.PageMetadata) string {
	if s.classifier.PrefersCaption(r.req.Host()) {
		return extract.CaptionText(meta)
	}
	return meta.PreviewDescription()
}

// remoteSource picks the prompt text: the platform caption for caption
// hosts, otherwise the first non-empty of sanitized page text, readable
// text, heuristic body text, and the combined head.
func (s *Service) remoteSource(r *run, page entity.Page, meta entity.PageMetadata) string {
	if s.classifier.PrefersCaption(r.req.Host()) {
		if c := extract.CaptionText(meta); c != "" {
			return c
		}
	}
	candidates := []func() string{
		func() string { return s.extractor.Sanitize(page.HTML) },
		func() string { return s.extractor.ReadableText(page.HTML, page.URL) },
		func() string { return s.extractor.BodyText(page.HTML) },
		func() string { return extract.CombineHead(meta.HeadParts(), s.cfg.DisplayCap) },
	}
	for _, c := range candidates {
		if t := c(); t != "" {
			return t
		}
	}
	return ""
}

// remote summarizes source with bounded retries while the model answers
// unusably. Concurrent identical prompts share one call.
func (s *Service) remote(ctx context.Context, r *run, source string) (string, error) {
	prompt := s.summarizer.PreparePrompt(source)
	if prompt == "" {
		return "", entity.ErrExtractionEmpty
	}
	key := promptKey(prompt)
	r.logger.InfoContext(ctx, "stage advanced",
		slog.String("stage", "remote"),
		slog.String("prompt_sha256", key))

	cfg := retry.Fixed(s.cfg.Retry.Attempts, s.cfg.Retry.Delay, func(err error) bool {
		return entity.IsModelError(err) &&
			!errors.Is(err, entity.ErrExtractionEmpty) &&
			!errors.Is(err, entity.ErrUnsupportedLanguage)
	})

	return s.coalescer.do(ctx, key, func(ctx context.Context) (string, error) {
		var summary string
		err := retry.WithBackoff(ctx, cfg, func() error {
			out, err := s.summarizer.Summarize(ctx, prompt)
			if err != nil {
				return err
			}
			summary = out
			return nil
		})
		return summary, err
	})
}

// ocr captures the page, reads its text, and summarizes it once.
func (s *Service) ocr(ctx context.Context, r *run) (string, bool) {
	r.logger.InfoContext(ctx, "stage advanced", slog.String("stage", "ocr"))
	img, err := s.capturer.Capture(ctx, r.req.URL())
	if err != nil {
		r.logger.WarnContext(ctx, "screenshot failed", slog.String("error", err.Error()))
		return "", false
	}
	recognized, err := s.recognizer.Recognize(ctx, img)
	if err != nil {
		r.logger.WarnContext(ctx, "ocr failed", slog.String("error", err.Error()))
		return "", false
	}
	if text.CountRunes(recognized) < s.cfg.OCRMinChars {
		r.logger.InfoContext(ctx, "ocr text too short", slog.Int("runes", text.CountRunes(recognized)))
		return "", false
	}
	summary, err := s.summarizer.Summarize(ctx, recognized)
	if err != nil {
		r.logger.WarnContext(ctx, "ocr summarization failed", slog.String("error", err.Error()))
		return "", false
	}
	return summary, true
}

func (s *Service) finish(ctx context.Context, r *run, res entity.SummaryResult) entity.SummaryResult {
	if res.Summary == "" {
		res.Summary = s.cfg.Messages.NothingReadable
	}
	res.Summary = text.Cap(res.Summary, s.cfg.DisplayCap)
	if res.OGImage == "" {
		res.OGImage = s.images.Resolve(fallback.CategoryWeird)
	}

	duration := time.Since(r.start)
	runes := text.CountRunes(res.Summary)
	metrics.RecordPipelineResult(res.Stage, r.policy.String(), duration, runes)
	r.logger.InfoContext(ctx, "pipeline finished",
		slog.String("stage", res.Stage),
		slog.Bool("used_remote_model", res.UsedRemoteModel),
		slog.Int("summary_runes", runes),
		slog.Duration("duration", duration))
	return res
}
