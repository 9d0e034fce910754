package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Toidicodedao69/VAIT-Hackathon/internal/domain"
)

// Ledger accumulates points per (user, channel, month).
type Ledger struct {
	db *DB
}

func NewLedger(db *DB) *Ledger { return &Ledger{db: db} }

// Credit applies an atomic upsert-with-increment: first qualifying event
// in a month creates the row, every later one adds to it. The increment
// happens inside the statement, so concurrent credits for the same key
// are never lost.
func (l *Ledger) Credit(ctx context.Context, userID, channelID string, monthKey time.Time, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("credit for %s/%s: amount must be positive, got %d", userID, channelID, amount)
	}
	_, err := l.db.Pool.Exec(ctx, `
INSERT INTO points (user_id, channel_id, month_year, points)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, channel_id, month_year)
DO UPDATE SET points = points.points + EXCLUDED.points`,
		userID, channelID, domain.MonthOf(monthKey), amount)
	if err != nil {
		return fmt.Errorf("credit %s/%s: %w", userID, channelID, err)
	}
	return nil
}

// MonthEntries returns every (user, channel) accumulator row for the
// month, ordered by channel then user for deterministic processing.
func (l *Ledger) MonthEntries(ctx context.Context, monthKey time.Time) ([]domain.PointEntry, error) {
	monthKey = domain.MonthOf(monthKey)
	rows, err := l.db.Pool.Query(ctx, `
SELECT user_id, channel_id, points FROM points
WHERE month_year = $1
ORDER BY channel_id, user_id`,
		monthKey)
	if err != nil {
		return nil, fmt.Errorf("query month %s: %w", monthKey.Format("2006-01"), err)
	}
	defer rows.Close()

	var out []domain.PointEntry
	for rows.Next() {
		e := domain.PointEntry{MonthYear: monthKey}
		if err := rows.Scan(&e.UserID, &e.ChannelID, &e.Points); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
