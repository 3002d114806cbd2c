package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/iq-capitalist/iq-capitalist.github.io/internal/checker"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/views"
	"github.com/iq-capitalist/iq-capitalist.github.io/pkg/logger"
)

// Default configuration constants.
const (
	defaultTimeout      = 30 * time.Second
	defaultWorkers      = 4
	defaultCheckTimeout = 5 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		view       = flag.String("view", views.Capital, "View to check")
		level      = flag.String("level", "", "Level for level-scoped views")
		tournament = flag.Int("tournament", 0, "Tournament id for the tournament-players view")
		workers    = flag.Int("workers", defaultWorkers, "Concurrent page fetches")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	logLevel := "warn"
	if *verbose {
		logLevel = "info"
	}
	if err := logger.Init(logger.WithLevel(logLevel), logger.WithOutput(os.Stderr)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultCheckTimeout)
	defer cancel()

	report, err := checker.Run(ctx, &checker.Config{
		BaseURL:    *baseURL,
		View:       *view,
		Level:      *level,
		Tournament: *tournament,
		Workers:    *workers,
		Timeout:    *timeout,
		Verbose:    *verbose,
	})
	if err != nil {
		os.Stderr.WriteString("check failed: " + err.Error() + "\n")
		os.Exit(1)
	}
	checker.PrintSummary(os.Stdout, report)
	if report.Failed() > 0 {
		os.Exit(1)
	}
}
