package lead

import (
	"context"
	"fmt"
	"time"

	"github.com/neshkola/leadbot/core/logger"
	"log/slog"
)

// Sink receives completed lead records. The Google Sheets client is always
// configured; the Postgres mirror is optional.
type Sink interface {
	Append(ctx context.Context, rec Record) error
}

// Service submits leads to every configured sink in order. The first failure
// aborts the submission and is reported to the caller; there is no automatic
// retry.
type Service struct {
	sinks []Sink
}

// NewService builds a submission service over the given sinks.
func NewService(sinks ...Sink) *Service {
	return &Service{sinks: sinks}
}

// Submit appends the record to each sink sequentially.
func (s *Service) Submit(ctx context.Context, rec Record) error {
	start := time.Now()
	for _, sink := range s.sinks {
		if err := sink.Append(ctx, rec); err != nil {
			logger.LogEvent(ctx, logger.SVCLeads, slog.LevelError, "lead.append",
				slog.String("status", logger.Status(err)),
				slog.String("age_label", rec.AgeLabel),
				slog.Duration("duration", logger.Took(start)),
				slog.String("err", err.Error()),
			)
			return fmt.Errorf("append lead: %w", err)
		}
	}
	logger.LogEvent(ctx, logger.SVCLeads, slog.LevelInfo, "lead.append",
		slog.String("status", logger.Status(nil)),
		slog.String("age_label", rec.AgeLabel),
		slog.Int("sinks", len(s.sinks)),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}
