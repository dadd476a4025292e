// Command summarize runs the pipeline for one URL and prints the result as
// JSON.
//
// Usage:
//
//	summarize [-force-remote] <url>
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"tweet-takeaways/internal/app"
	"tweet-takeaways/internal/config"
	"tweet-takeaways/internal/domain/entity"
	"tweet-takeaways/internal/observability/logging"
)

type output struct {
	Summary         string  `json:"summary"`
	OGImage         *string `json:"og_image"`
	UsedHuggingFace bool    `json:"used_huggingface"`
	Stage           string  `json:"stage"`
}

func main() {
	forceRemote := flag.Bool("force-remote", false, "skip the policy gate and shortcuts and summarize remotely")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: summarize [-force-remote] <url>")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	opts := logging.OptionsFromEnv()
	opts.Output = os.Stderr
	opts.Text = true
	logger, closeLog := logging.New(opts)
	defer func() { _ = closeLog.Close() }()
	slog.SetDefault(logger)

	if err := run(logger, flag.Arg(0), *forceRemote); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		_ = closeLog.Close()
		os.Exit(1)
	}
}

func run(logger *slog.Logger, rawURL string, forceRemote bool) error {
	req, err := entity.NewSummarizationRequest(rawURL)
	if err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	pipeline, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = pipeline.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var res entity.SummaryResult
	if forceRemote {
		res = pipeline.Service.ForceRemote(ctx, req)
	} else {
		res = pipeline.Service.Summarize(ctx, req)
	}

	out := output{Summary: res.Summary, UsedHuggingFace: res.UsedRemoteModel, Stage: res.Stage}
	if res.OGImage != "" {
		out.OGImage = &res.OGImage
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}
