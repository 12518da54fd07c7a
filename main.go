package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imattdu/assistdash/assistant"
	"github.com/imattdu/assistdash/confx"
	"github.com/imattdu/assistdash/httpclient"
	"github.com/imattdu/assistdash/logx"
	"github.com/imattdu/assistdash/metricx"
	"github.com/imattdu/assistdash/server"
	"github.com/imattdu/assistdash/tracex"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := confx.Load()
	if err != nil {
		return err
	}

	if err := logx.Init(logx.Config{
		AppName:        "assistdash",
		Level:          cfg.Log.SlogLevel(),
		LogDir:         cfg.Log.Dir,
		ConsoleEnabled: cfg.Log.Console,
		ConsoleColored: cfg.Log.Colored,
		MaxBackups:     24,
	}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logx.Close()

	tracex.SetGlobalSpanHook(func(ctx context.Context, span *tracex.Span) {
		logx.Debug(ctx, logx.TagUndef, "span end", "name", span.Name, logx.Cost, span.Duration().Milliseconds())
	})

	metrics := metricx.New(cfg.Metrics.Namespace)
	hc, err := httpclient.New(
		httpclient.WithBaseURL(cfg.API.BaseURL),
		httpclient.WithMaxRetries(cfg.API.MaxRetries),
		httpclient.WithDefaultTimeout(cfg.API.Timeout),
		httpclient.WithStatsHook(metrics.ObserveCall),
	)
	if err != nil {
		return fmt.Errorf("init backend client: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logx.Info(ctx, logx.TagStartup, "config loaded",
		"backend", hc.BaseURL(), "max_retries", cfg.API.MaxRetries, "addr", cfg.Server.Addr)

	srv := server.New(assistant.New(hc), metrics)
	return srv.Run(ctx, cfg.Server.Addr, cfg.Server.ShutdownTimeout)
}
