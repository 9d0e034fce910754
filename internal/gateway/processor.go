// Package gateway connects the tracker's core to the platform bridge:
// inbound message events in, role-grant actions out.
package gateway

import (
	"context"
	"log/slog"
	"time"

	"github.com/Toidicodedao69/VAIT-Hackathon/internal/domain"
	"github.com/Toidicodedao69/VAIT-Hackathon/internal/observability"
)

type Registry interface {
	Lookup(ctx context.Context, channelID string) (domain.Channel, bool, error)
}

type Scorer interface {
	Score(ctx context.Context, ch domain.Channel, now time.Time) (int64, error)
}

type Ledger interface {
	Credit(ctx context.Context, userID, channelID string, monthKey time.Time, amount int64) error
}

// Processor consumes message events strictly in arrival order: a bounded
// queue feeds a single worker, and each credit is committed before the
// next event is taken. A full queue rejects at the edge; a failed event
// is logged and dropped, there is no retry queue.
type Processor struct {
	queue     chan domain.MessageEvent
	registry  Registry
	scorer    Scorer
	ledger    Ledger
	botUserID string
	log       *slog.Logger
	metrics   *observability.Metrics
}

func NewProcessor(registry Registry, scorer Scorer, ledger Ledger, botUserID string, queueMaxSize int, log *slog.Logger, metrics *observability.Metrics) *Processor {
	if log == nil {
		log = slog.Default()
	}
	return &Processor{
		queue:     make(chan domain.MessageEvent, queueMaxSize),
		registry:  registry,
		scorer:    scorer,
		ledger:    ledger,
		botUserID: botUserID,
		log:       log,
		metrics:   metrics,
	}
}

// Start launches the single consumer. It drains nothing on shutdown:
// cancelling ctx stops intake and in-flight work is not guaranteed to
// complete.
func (p *Processor) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-p.queue:
				p.process(ctx, ev)
			}
		}
	}()
}

// Enqueue offers an event to the queue without blocking. False means the
// queue is full and the caller should push back.
func (p *Processor) Enqueue(ev domain.MessageEvent) bool {
	select {
	case p.queue <- ev:
		return true
	default:
		return false
	}
}

func (p *Processor) process(ctx context.Context, ev domain.MessageEvent) {
	p.metrics.EventReceived()

	if ev.AuthorID == p.botUserID {
		p.metrics.EventIgnored("own_identity")
		return
	}

	ch, ok, err := p.registry.Lookup(ctx, ev.ChannelID)
	if err != nil {
		p.metrics.EventFailed()
		p.log.Error("channel lookup failed, event dropped", "channel_id", ev.ChannelID, "err", err)
		return
	}
	if !ok {
		p.metrics.EventIgnored("unregistered_channel")
		return
	}

	at := ev.Time()
	points, err := p.scorer.Score(ctx, ch, at)
	if err != nil {
		p.metrics.EventFailed()
		p.log.Error("scoring failed, event dropped", "channel_id", ev.ChannelID, "err", err)
		return
	}

	if err := p.ledger.Credit(ctx, ev.AuthorID, ev.ChannelID, domain.MonthOf(at), points); err != nil {
		p.metrics.EventFailed()
		p.log.Error("credit failed, event dropped",
			"user_id", ev.AuthorID,
			"channel_id", ev.ChannelID,
			"points", points,
			"err", err)
		return
	}
	p.metrics.PointsCredited(points)
	p.log.Debug("points credited",
		"user_id", ev.AuthorID,
		"channel_id", ev.ChannelID,
		"points", points)
}
