// Package screenshot renders a page in headless Chromium and captures it
// as a PNG for the OCR last resort.
package screenshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	envconfig "tweet-takeaways/pkg/config"
)

// Capturer produces an image of a page.
type Capturer interface {
	Capture(ctx context.Context, url string) ([]byte, error)
}

// Config configures the headless browser.
type Config struct {
	// BrowserBin is the Chromium binary. Empty lets rod locate or download one.
	BrowserBin string

	Timeout     time.Duration
	SettleDelay time.Duration
	Width       int
	Height      int
	UserAgent   string
}

// DefaultConfig returns a 1280x720 viewport with a 30s budget.
func DefaultConfig() Config {
	return Config{
		Timeout:     30 * time.Second,
		SettleDelay: 2 * time.Second,
		Width:       1280,
		Height:      720,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return errors.New("screenshot timeout must be positive")
	}
	if c.Width < 320 || c.Height < 240 {
		return fmt.Errorf("viewport %dx%d is too small", c.Width, c.Height)
	}
	if c.SettleDelay < 0 || c.SettleDelay >= c.Timeout {
		return fmt.Errorf("settle delay %s must be within the timeout %s", c.SettleDelay, c.Timeout)
	}
	return nil
}

// LoadConfigFromEnv overlays SCREENSHOT_* variables on the defaults.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	cfg.BrowserBin = envconfig.GetEnvString("SCREENSHOT_BROWSER_BIN", cfg.BrowserBin)
	cfg.Timeout = envconfig.GetEnvDuration("SCREENSHOT_TIMEOUT", cfg.Timeout)
	cfg.SettleDelay = envconfig.GetEnvDuration("SCREENSHOT_SETTLE_DELAY", cfg.SettleDelay)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Rod captures pages with a fresh browser per call so a crashed tab never
// leaks into the next request.
type Rod struct {
	cfg    Config
	logger *slog.Logger
}

// NewRod creates a Rod capturer.
func NewRod(cfg Config, logger *slog.Logger) *Rod {
	if logger == nil {
		logger = slog.Default()
	}
	return &Rod{cfg: cfg, logger: logger}
}

// Capture navigates to url, waits for load plus the settle delay, and
// returns a viewport PNG.
func (r *Rod) Capture(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	l := launcher.New().
		Headless(true).
		Set("no-sandbox").
		Set("disable-extensions").
		Set("disable-plugins")
	if r.cfg.BrowserBin != "" {
		l = l.Bin(r.cfg.BrowserBin)
	}
	defer l.Cleanup()

	controlURL, err := l.Context(ctx).Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	defer func() {
		if err := browser.Close(); err != nil {
			r.logger.Warn("failed to close browser", slog.String("error", err.Error()))
		}
	}()

	page, err := browser.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             r.cfg.Width,
		Height:            r.cfg.Height,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, fmt.Errorf("set viewport: %w", err)
	}
	if r.cfg.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: r.cfg.UserAgent}); err != nil {
			r.logger.Warn("failed to set user agent", slog.String("error", err.Error()))
		}
	}

	if err := page.Navigate(url); err != nil {
		return nil, fmt.Errorf("navigate: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load: %w", err)
	}

	select {
	case <-time.After(r.cfg.SettleDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	img, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}

	r.logger.InfoContext(ctx, "page captured",
		slog.String("url", url),
		slog.Int("bytes", len(img)))
	return img, nil
}
