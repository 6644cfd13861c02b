package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/enrichdash/internal/smoke"
	"github.com/okian/enrichdash/pkg/logger"
)

// defaultRunTimeout bounds the whole smoke run.
const defaultRunTimeout = 2 * time.Minute

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:8000", "Base URL of the service")
		workers   = flag.Int("workers", smoke.DefaultWorkers, "Maximum concurrent checks")
		timeout   = flag.Duration("timeout", smoke.DefaultTimeout, "HTTP request timeout")
		logFormat = flag.String("log-format", logger.FormatText, "Log encoding: text or json")
		verbose   = flag.Bool("verbose", false, "Log passing checks too")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		smoke.ShowHelp(os.Stdout)
		return
	}

	if err := logger.InitWithFormat(*logFormat); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	_, err := smoke.Run(ctx, smoke.Config{
		BaseURL: *baseURL,
		Workers: *workers,
		Timeout: *timeout,
		Verbose: *verbose,
		Logger:  logger.Get(),
	})
	if err != nil {
		os.Stderr.WriteString("smoke checks failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
