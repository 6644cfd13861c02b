package smoke

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/enrichdash/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Run executes every check against cfg.BaseURL, at most cfg.Workers at a
// time. Failed checks do not stop the others; the returned error wraps
// ErrChecksFailed and lists each failure.
func Run(ctx context.Context, cfg Config) (Stats, error) {
	if cfg.BaseURL == "" {
		return Stats{}, fmt.Errorf("%w: base url is empty", ErrInvalidConfig)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Discard()
	}
	log = log.Named("smoke")

	stats := Stats{StartTime: time.Now()}
	log.Info(ctx, "starting smoke checks",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout))

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	all := checks()

	var (
		mu       sync.Mutex
		failures []Failure
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, c := range all {
		g.Go(func() error {
			err := c.run(gctx, client)
			if err != nil {
				log.Warn(gctx, "check failed", logger.String("check", c.name), logger.Error(err))
				mu.Lock()
				failures = append(failures, Failure{Check: c.name, Err: err})
				mu.Unlock()
				return nil
			}
			if cfg.Verbose {
				log.Info(gctx, "check passed", logger.String("check", c.name))
			}
			return nil
		})
	}
	_ = g.Wait()

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	stats.Checks = len(all)
	stats.Failed = len(failures)
	stats.Passed = stats.Checks - stats.Failed
	stats.Requests = client.requests.Load()

	log.Info(ctx, "smoke checks finished",
		logger.Int("checks", stats.Checks),
		logger.Int("passed", stats.Passed),
		logger.Int("failed", stats.Failed),
		logger.Int64("requests", stats.Requests),
		logger.Duration("duration", stats.Duration))

	if len(failures) > 0 {
		errs := make([]error, 0, len(failures)+1)
		errs = append(errs, ErrChecksFailed)
		for _, f := range failures {
			errs = append(errs, fmt.Errorf("%s: %w", f.Check, f.Err))
		}
		return stats, errors.Join(errs...)
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}
