// Package leaderboard derives monthly winners and turns them into
// role-grant actions.
package leaderboard

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Toidicodedao69/VAIT-Hackathon/internal/domain"
	"github.com/Toidicodedao69/VAIT-Hackathon/internal/observability"
)

type Ledger interface {
	MonthEntries(ctx context.Context, monthKey time.Time) ([]domain.PointEntry, error)
}

type Registry interface {
	Lookup(ctx context.Context, channelID string) (domain.Channel, bool, error)
}

type Granter interface {
	Grant(ctx context.Context, req domain.GrantRequest) error
}

// Winners computes, per channel, the user(s) holding the maximum
// accumulated points. Ties all win. Output is ordered by channel then
// user so batch processing is deterministic.
func Winners(entries []domain.PointEntry) []domain.Winner {
	best := make(map[string]int64)
	for _, e := range entries {
		if cur, ok := best[e.ChannelID]; !ok || e.Points > cur {
			best[e.ChannelID] = e.Points
		}
	}

	var out []domain.Winner
	for _, e := range entries {
		if e.Points == best[e.ChannelID] {
			out = append(out, domain.Winner{ChannelID: e.ChannelID, UserID: e.UserID, Points: e.Points})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ChannelID != out[j].ChannelID {
			return out[i].ChannelID < out[j].ChannelID
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}

// Resolver runs the monthly recognition cycle.
type Resolver struct {
	ledger      Ledger
	registry    Registry
	granter     Granter
	communityID string
	log         *slog.Logger
	metrics     *observability.Metrics
}

func NewResolver(ledger Ledger, registry Registry, granter Granter, communityID string, log *slog.Logger, metrics *observability.Metrics) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{
		ledger:      ledger,
		registry:    registry,
		granter:     granter,
		communityID: communityID,
		log:         log,
		metrics:     metrics,
	}
}

// Run resolves the month's winners and requests a role grant for each.
// A ledger failure aborts the whole run (the scheduler retries next
// day). Everything after that is best-effort per row: an unregistered
// channel or a failed grant is logged and skipped, never fatal.
func (r *Resolver) Run(ctx context.Context, monthKey time.Time) error {
	monthKey = domain.MonthOf(monthKey)

	entries, err := r.ledger.MonthEntries(ctx, monthKey)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", monthKey.Format("2006-01"), err)
	}

	winners := Winners(entries)
	r.log.Info("resolved monthly winners",
		"month", monthKey.Format("2006-01"),
		"entries", len(entries),
		"winners", len(winners))

	for _, w := range winners {
		ch, ok, err := r.registry.Lookup(ctx, w.ChannelID)
		if err != nil {
			r.log.Error("winner channel lookup failed", "channel_id", w.ChannelID, "err", err)
			continue
		}
		if !ok {
			// Registry entry removed between credit and resolution.
			r.log.Warn("winner channel no longer registered", "channel_id", w.ChannelID, "user_id", w.UserID)
			continue
		}

		req := domain.GrantRequest{
			DeliveryID:  uuid.NewString(),
			CommunityID: r.communityID,
			UserID:      w.UserID,
			RoleName:    ch.RoleName(),
		}
		if err := r.granter.Grant(ctx, req); err != nil {
			r.metrics.GrantFailed()
			r.log.Error("role grant failed",
				"delivery_id", req.DeliveryID,
				"user_id", w.UserID,
				"role", req.RoleName,
				"err", err)
			continue
		}
		r.metrics.GrantIssued()
		r.log.Info("role grant dispatched",
			"delivery_id", req.DeliveryID,
			"user_id", w.UserID,
			"role", req.RoleName,
			"points", w.Points)
	}
	return nil
}
