// Package app provides the service that implements the dependencies
// required by the HTTP API.
package app

import (
	"context"
	"errors"
	"time"

	"github.com/okian/enrichdash/internal/domain/catalog"
	"github.com/okian/enrichdash/internal/domain/ingest"
	"github.com/okian/enrichdash/pkg/logger"
	"github.com/okian/enrichdash/pkg/metrics"
)

// AutomationStarted is the status acknowledged by StartAutomation.
const AutomationStarted = "started"

// Service implements the API dependencies for the enrichment dashboard.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	logger     logger.Logger
	now        func() time.Time
	ingestOpts ingest.Options
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used for log timings.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithUnzipSizeLimit caps how far an uploaded workbook may inflate.
func WithUnzipSizeLimit(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.ingestOpts.UnzipSizeLimit = n
		}
	}
}

// New constructs a Service.
func New(opts ...Option) *Service {
	s := &Service{
		logger: logger.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("service")
	return s
}

// Hello returns the static greeting.
func (s *Service) Hello(_ context.Context) catalog.Greeting { return catalog.Hello() }

// Dashboard returns the dashboard summary.
func (s *Service) Dashboard(_ context.Context) catalog.Dashboard { return catalog.DashboardSummary() }

// Enrichments returns the enrichment status table.
func (s *Service) Enrichments(_ context.Context) []catalog.Enrichment { return catalog.Enrichments() }

// Contacts returns enriched contacts.
func (s *Service) Contacts(_ context.Context) []catalog.Contact { return catalog.Contacts() }

// Campaigns returns campaign summaries.
func (s *Service) Campaigns(_ context.Context) []catalog.Campaign { return catalog.Campaigns() }

// Settings returns workspace settings.
func (s *Service) Settings(_ context.Context) catalog.Settings { return catalog.WorkspaceSettings() }

// History returns the agent run history.
func (s *Service) History(_ context.Context) []catalog.HistoryEntry { return catalog.History() }

// Ingest parses an uploaded lead file; filename is only logged. Errors wrap ingest.ErrInvalidInput or
// ingest.ErrDecode.
func (s *Service) Ingest(ctx context.Context, filename string, data []byte) ([]ingest.Row, error) {
	start := s.now()
	rows, format, err := ingest.Parse(data, s.ingestOpts)
	if err != nil {
		outcome := "invalid_input"
		if errors.Is(err, ingest.ErrDecode) {
			outcome = "decode_error"
		}
		metrics.RecordUpload(string(format), outcome, len(data))
		s.logger.Warn(ctx, "upload rejected",
			logger.String("filename", filename),
			logger.String("format", string(format)),
			logger.Int("bytes", len(data)),
			logger.Error(err))
		return nil, err
	}

	metrics.RecordUpload(string(format), "ok", len(data))
	metrics.RecordRowsIngested(len(rows))
	s.logger.Info(ctx, "upload parsed",
		logger.String("filename", filename),
		logger.String("format", string(format)),
		logger.Int("bytes", len(data)),
		logger.Int("rows", len(rows)),
		logger.Duration("took", s.now().Sub(start)))
	return rows, nil
}

// StartAutomation acknowledges an automation request carrying rows rows.
// Nothing is scheduled.
func (s *Service) StartAutomation(ctx context.Context, rows int) string {
	metrics.RecordAutomationStart(rows)
	s.logger.Info(ctx, "automation start acknowledged", logger.Int("rows", rows))
	return AutomationStarted
}
