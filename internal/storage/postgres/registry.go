package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Toidicodedao69/VAIT-Hackathon/internal/domain"
)

// Registry reads the channel configuration table. The event path treats
// it as read-only; Seed exists for out-of-band administration.
type Registry struct {
	db *DB
}

func NewRegistry(db *DB) *Registry { return &Registry{db: db} }

// Lookup returns the registered channel, or ok=false when the channel is
// not configured. A miss is not an error: events for unknown channels
// are simply ignored.
func (r *Registry) Lookup(ctx context.Context, channelID string) (domain.Channel, bool, error) {
	var (
		kindStr  string
		category string
	)
	row := r.db.Pool.QueryRow(ctx,
		"SELECT channel_type, category FROM channels WHERE channel_id = $1", channelID)
	if err := row.Scan(&kindStr, &category); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Channel{}, false, nil
		}
		return domain.Channel{}, false, fmt.Errorf("lookup channel %s: %w", channelID, err)
	}

	kind, err := domain.ParseChannelKind(kindStr)
	if err != nil {
		return domain.Channel{}, false, fmt.Errorf("channel %s: %w", channelID, err)
	}
	return domain.Channel{ID: channelID, Kind: kind, Category: category}, true, nil
}

// Seed upserts channel rows from a seed file. Existing channels are
// overwritten so re-running a seed converges on the file's contents.
func (r *Registry) Seed(ctx context.Context, channels []domain.Channel) error {
	for _, ch := range channels {
		_, err := r.db.Pool.Exec(ctx, `
INSERT INTO channels (channel_id, channel_type, category)
VALUES ($1, $2, $3)
ON CONFLICT (channel_id)
DO UPDATE SET channel_type = EXCLUDED.channel_type, category = EXCLUDED.category`,
			ch.ID, ch.Kind.String(), ch.Category)
		if err != nil {
			return fmt.Errorf("seed channel %s: %w", ch.ID, err)
		}
	}
	return nil
}
