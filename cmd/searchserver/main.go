package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/console"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/history"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/metrics"
)

var (
	appName = "searchserver"
	appSha  = "populated-at-link-time"
)

func main() {
	if err := makeApp().Run(os.Args); err != nil {
		slog.Error("shutting down due to error", "error", err)
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(apperrors.ExitCode(err))
	}
}

func makeApp() *cli.App {
	app := cli.NewApp()
	app.Name = appName
	app.Version = appSha
	app.Usage = "load a document batch and answer ranked search queries"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "config",
			Value:  "",
			EnvVar: "SP_CONFIG",
			Usage:  "Path to a YAML config file (defaults are used when empty)",
		},
		cli.StringFlag{
			Name:   "input",
			Value:  "-",
			EnvVar: "SP_INPUT",
			Usage:  "Document batch followed by query commands; - reads stdin",
		},
		cli.StringFlag{
			Name:   "log-level",
			EnvVar: "SP_LOG_LEVEL",
			Usage:  "Override the configured log level (debug, info, warn, error)",
		},
	}
	app.Action = runMain
	return app
}

func runMain(appCtx *cli.Context) error {
	cfg, err := config.Load(appCtx.String("config"))
	if err != nil {
		return err
	}
	if level := appCtx.String("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format, nil)

	input, err := openInput(appCtx.String("input"))
	if err != nil {
		return err
	}
	defer input.Close()

	m := metrics.New(prometheus.NewRegistry())
	reader := console.NewReader(input)
	server, err := console.Load(reader, stopWords(cfg.Search), searcher.WithMetrics(m))
	if err != nil {
		return err
	}
	queue := history.NewRequestQueue(server, history.Config{
		Window:  cfg.History.Window,
		Metrics: m,
	})
	shell := console.NewShell(server, queue, appCtx.App.Writer, cfg.Search.PageSize)

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return shell.Run(gctx, reader)
	})
	if cfg.Metrics.Enabled {
		checker := readiness(server, queue)
		g.Go(func() error {
			return m.Serve(gctx, cfg.Metrics.Port, checker.ReadyHandler())
		})
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	slog.Info("search server stopped",
		"documents", server.DocumentCount(),
		"requests", queue.Len(),
		"no_result_requests", queue.NoResultRequests(),
	)
	return err
}

func readiness(server *searcher.Server, queue *history.RequestQueue) *health.Checker {
	checker := health.NewChecker(nil)
	checker.Register("document_store", func(context.Context) health.ComponentHealth {
		n := server.DocumentCount()
		if n == 0 {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "no documents loaded"}
		}
		return health.ComponentHealth{Status: health.StatusUp, Message: fmt.Sprintf("%d documents", n)}
	})
	checker.Register("request_history", func(context.Context) health.ComponentHealth {
		total, empty := queue.Len(), queue.NoResultRequests()
		if total > 0 && empty == total {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "every retained request was empty"}
		}
		return health.ComponentHealth{Status: health.StatusUp, Message: fmt.Sprintf("%d of %d empty", empty, total)}
	})
	return checker
}

func stopWords(cfg config.SearchConfig) []string {
	if len(cfg.StopWordList) > 0 {
		return cfg.StopWordList
	}
	return tokenizer.Split(cfg.StopWords)
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" || path == "" {
		return os.Stdin, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input %s: %w", path, err)
	}
	return f, nil
}
