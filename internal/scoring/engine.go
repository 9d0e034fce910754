// Package scoring computes the point value of one qualifying event.
package scoring

import (
	"context"
	"fmt"
	"time"

	"github.com/Toidicodedao69/VAIT-Hackathon/internal/domain"
)

// WindowChecker answers whether a channel has an active charge window
// on a date.
type WindowChecker interface {
	IsActive(ctx context.Context, channelID string, day time.Time) (bool, error)
}

// Engine turns (channel, timestamp) into a point amount: the kind's base
// value, doubled while a charge window covers the date. No side effects.
type Engine struct {
	windows    WindowChecker
	pointsPost int64
	pointsQA   int64
}

func NewEngine(windows WindowChecker, pointsPost, pointsQA int) *Engine {
	return &Engine{
		windows:    windows,
		pointsPost: int64(pointsPost),
		pointsQA:   int64(pointsQA),
	}
}

func (e *Engine) Score(ctx context.Context, ch domain.Channel, now time.Time) (int64, error) {
	var base int64
	switch ch.Kind {
	case domain.KindPost:
		base = e.pointsPost
	case domain.KindQA:
		base = e.pointsQA
	default:
		return 0, fmt.Errorf("score channel %s: unhandled kind %v", ch.ID, ch.Kind)
	}

	active, err := e.windows.IsActive(ctx, ch.ID, domain.DateOf(now))
	if err != nil {
		return 0, fmt.Errorf("score channel %s: %w", ch.ID, err)
	}
	if active {
		base *= 2
	}
	return base, nil
}
