// Package scheduler drives the tracker's two recurring cycles: weekly
// charge-window provisioning and the daily monthly-leaderboard check.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/Toidicodedao69/VAIT-Hackathon/internal/domain"
	"github.com/Toidicodedao69/VAIT-Hackathon/internal/observability"
)

type WindowProvisioner interface {
	Provision(ctx context.Context, channelID string, start time.Time) error
}

type LeaderboardRunner interface {
	Run(ctx context.Context, monthKey time.Time) error
}

// Scheduler interleaves both cycles in a single loop. Intervals count
// from process start; missed fires during downtime are not backfilled,
// the next fire simply uses the then-current date.
type Scheduler struct {
	windows         WindowProvisioner
	leaderboard     LeaderboardRunner
	chargeChannelID string
	weeklyEvery     time.Duration
	dailyEvery      time.Duration
	now             func() time.Time
	log             *slog.Logger
	metrics         *observability.Metrics
}

func New(windows WindowProvisioner, leaderboard LeaderboardRunner, chargeChannelID string, weeklyEvery, dailyEvery time.Duration, log *slog.Logger, metrics *observability.Metrics) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{
		windows:         windows,
		leaderboard:     leaderboard,
		chargeChannelID: chargeChannelID,
		weeklyEvery:     weeklyEvery,
		dailyEvery:      dailyEvery,
		now:             time.Now,
		log:             log,
		metrics:         metrics,
	}
}

// SetNow overrides the clock. Tests only.
func (s *Scheduler) SetNow(now func() time.Time) { s.now = now }

// Run blocks until ctx is cancelled. Both cycles fire once immediately
// at start, then on every interval tick.
func (s *Scheduler) Run(ctx context.Context) {
	s.weeklyTick(ctx)
	s.dailyTick(ctx)

	weekly := time.NewTicker(s.weeklyEvery)
	defer weekly.Stop()
	daily := time.NewTicker(s.dailyEvery)
	defer daily.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-weekly.C:
			s.weeklyTick(ctx)
		case <-daily.C:
			s.dailyTick(ctx)
		}
	}
}

func (s *Scheduler) weeklyTick(ctx context.Context) {
	s.metrics.CycleRan("weekly")
	today := domain.DateOf(s.now())
	if err := s.windows.Provision(ctx, s.chargeChannelID, today); err != nil {
		s.metrics.CycleFailed("weekly")
		s.log.Error("charge window provisioning failed",
			"channel_id", s.chargeChannelID,
			"start_date", today.Format("2006-01-02"),
			"err", err)
		return
	}
	s.metrics.WindowProvisioned()
	s.log.Info("charge window provisioned",
		"channel_id", s.chargeChannelID,
		"start_date", today.Format("2006-01-02"))
}

func (s *Scheduler) dailyTick(ctx context.Context) {
	s.metrics.CycleRan("daily")
	now := s.now().UTC()
	if now.Day() != 1 {
		return
	}
	month := domain.MonthOf(now)
	if err := s.leaderboard.Run(ctx, month); err != nil {
		s.metrics.CycleFailed("daily")
		// Retried on the next daily fire, not immediately.
		s.log.Error("leaderboard cycle failed", "month", month.Format("2006-01"), "err", err)
		return
	}
	s.log.Info("leaderboard cycle completed", "month", month.Format("2006-01"))
}
