// Package postgres mirrors captured leads into a Postgres table so they
// survive independently of the spreadsheet.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/neshkola/leadbot/core/logger"
	"github.com/neshkola/leadbot/internal/lead"
)

const insertLead = `
	INSERT INTO leads (id, submitted_at, display_name, handle, phone, age_label)
	VALUES ($1, $2, $3, $4, $5, $6)`

// LeadRepo stores leads in the leads table. It implements lead.Sink.
type LeadRepo struct {
	db *sqlx.DB
}

func NewLeadRepo(db *sqlx.DB) *LeadRepo {
	return &LeadRepo{db: db}
}

// Append inserts the lead as a new row. Each row gets its own UUID so the
// table has no natural-key collisions when the same person submits twice.
func (r *LeadRepo) Append(ctx context.Context, rec lead.Record) error {
	start := time.Now()
	_, err := r.db.ExecContext(ctx, insertLead,
		uuid.NewString(),
		rec.SubmittedAt,
		rec.DisplayName,
		rec.Handle,
		rec.Phone,
		rec.AgeLabel,
	)
	if err != nil {
		logger.DB.LogAttrs(ctx, slog.LevelError, "lead.insert.failed",
			slog.Duration("took", logger.Took(start)),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("insert lead: %w", err)
	}
	logger.DB.LogAttrs(ctx, slog.LevelDebug, "lead.inserted",
		slog.Duration("took", logger.Took(start)),
	)
	return nil
}
