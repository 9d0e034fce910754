package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Toidicodedao69/VAIT-Hackathon/internal/domain"
)

// Windows stores charge windows: append-only, never mutated or deleted.
type Windows struct {
	db *DB
}

func NewWindows(db *DB) *Windows { return &Windows{db: db} }

// Provision inserts the 7-day window starting at the given date.
// ON CONFLICT DO NOTHING makes re-provisioning for the same start date
// (restart, duplicate tick) a no-op.
func (w *Windows) Provision(ctx context.Context, channelID string, start time.Time) error {
	win := domain.NewChargeWindow(channelID, start)
	_, err := w.db.Pool.Exec(ctx, `
INSERT INTO charge_windows (channel_id, start_date, end_date)
VALUES ($1, $2, $3)
ON CONFLICT (channel_id, start_date)
DO NOTHING`,
		win.ChannelID, win.StartDate, win.EndDate)
	if err != nil {
		return fmt.Errorf("provision window for %s: %w", channelID, err)
	}
	return nil
}

// IsActive reports whether any stored window for the channel covers the
// given date. Overlapping windows OR together; a channel with no windows
// is never active.
func (w *Windows) IsActive(ctx context.Context, channelID string, day time.Time) (bool, error) {
	day = domain.DateOf(day)
	var active bool
	err := w.db.Pool.QueryRow(ctx, `
SELECT EXISTS (
    SELECT 1 FROM charge_windows
    WHERE channel_id = $1 AND start_date <= $2 AND end_date >= $2
)`,
		channelID, day).Scan(&active)
	if err != nil {
		return false, fmt.Errorf("check window for %s: %w", channelID, err)
	}
	return active, nil
}
