package fetcher

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/net/html/charset"

	"tweet-takeaways/internal/domain/entity"
	"tweet-takeaways/internal/observability/metrics"
	"tweet-takeaways/internal/resilience/circuitbreaker"
)

// Page is a fetched document.
type Page = entity.Page

// HTMLFetcher retrieves pages over HTTP with SSRF protection, a body cap,
// and a circuit breaker. It is safe for concurrent use.
type HTMLFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	config         Config
	logger         *slog.Logger
}

// New creates an HTMLFetcher.
func New(config Config, logger *slog.Logger) *HTMLFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	breaker := circuitbreaker.PageFetchConfig()
	breaker.IsSuccessful = healthyOutcome
	f := &HTMLFetcher{
		circuitBreaker: circuitbreaker.New(breaker),
		config:         config,
		logger:         logger,
	}

	base := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	f.client = &http.Client{
		Timeout:   config.Timeout,
		Transport: otelhttp.NewTransport(base),
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= f.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			if err := validateURL(req.URL.String(), f.config.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target rejected: %w", err)
			}
			return nil
		},
	}
	return f
}

// Circuits reports the breaker state keyed by breaker name.
func (f *HTMLFetcher) Circuits() map[string]string {
	return map[string]string{f.circuitBreaker.Name(): f.circuitBreaker.State().String()}
}

// Fetch retrieves rawURL. Every failure, including network errors, timeouts,
// and non-2xx statuses, is returned as *entity.FetchError. A 2xx response
// with an empty body is a success.
func (f *HTMLFetcher) Fetch(ctx context.Context, rawURL string) (Page, error) {
	start := time.Now()

	page, err := f.fetch(ctx, rawURL)
	if err != nil {
		metrics.RecordFetchFailure(time.Since(start))
		f.logger.Info("page fetch failed",
			slog.String("url", rawURL),
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err))
		return Page{}, err
	}

	metrics.RecordFetchSuccess(time.Since(start), len(page.HTML))
	f.logger.Debug("page fetched",
		slog.String("url", rawURL),
		slog.String("final_url", page.URL),
		slog.Int("bytes", len(page.HTML)),
		slog.Duration("duration", time.Since(start)))
	return page, nil
}

func (f *HTMLFetcher) fetch(ctx context.Context, rawURL string) (Page, error) {
	if err := validateURL(rawURL, f.config.DenyPrivateIPs); err != nil {
		return Page{}, &entity.FetchError{URL: rawURL, Err: err}
	}

	page, err := circuitbreaker.Run(f.circuitBreaker, func() (Page, error) {
		return f.doFetch(ctx, rawURL)
	})
	if err != nil {
		if circuitbreaker.IsRejection(err) {
			return Page{}, &entity.FetchError{URL: rawURL, Err: fmt.Errorf("%w: %v", ErrCircuitOpen, err)}
		}
		var fe *entity.FetchError
		if errors.As(err, &fe) {
			return Page{}, fe
		}
		return Page{}, &entity.FetchError{URL: rawURL, Err: err}
	}
	return page, nil
}

func (f *HTMLFetcher) doFetch(ctx context.Context, rawURL string) (Page, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Page{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", f.config.AcceptLanguage)

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return Page{}, fmt.Errorf("%w: request exceeded %v", ErrTimeout, f.config.Timeout)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return Page{}, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		if errors.Is(err, ErrTooManyRedirects) || errors.Is(err, ErrPrivateIP) || errors.Is(err, ErrInvalidURL) {
			return Page{}, err
		}
		return Page{}, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Page{}, &entity.FetchError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodySize+1))
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return Page{}, fmt.Errorf("%w: reading body", ErrTimeout)
		}
		return Page{}, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > f.config.MaxBodySize {
		return Page{}, fmt.Errorf("%w: exceeds limit %d bytes", ErrBodyTooLarge, f.config.MaxBodySize)
	}

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	return Page{HTML: decode(body, resp.Header.Get("Content-Type")), URL: finalURL}, nil
}

// healthyOutcome reports whether err counts as a success for the breaker.
// Statuses, unknown hosts, bad certificates and oversized pages belong to
// one site. Only failures that suggest our own egress is broken count.
func healthyOutcome(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var fe *entity.FetchError
	if errors.As(err, &fe) && fe.StatusCode != 0 {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
		return true
	}
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return true
	}
	return errors.Is(err, ErrInvalidURL) ||
		errors.Is(err, ErrPrivateIP) ||
		errors.Is(err, ErrTooManyRedirects) ||
		errors.Is(err, ErrBodyTooLarge)
}

// decode converts body to UTF-8 using the Content-Type charset, a meta
// charset declaration, or content sniffing.
func decode(body []byte, contentType string) string {
	if len(body) == 0 {
		return ""
	}
	enc, name, certain := charset.DetermineEncoding(body, contentType)
	if name == "utf-8" || (!certain && utf8.Valid(body)) {
		return string(body)
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}
