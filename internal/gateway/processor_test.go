package gateway

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Toidicodedao69/VAIT-Hackathon/internal/domain"
	"github.com/Toidicodedao69/VAIT-Hackathon/internal/scoring"
)

type memRegistry struct {
	channels map[string]domain.Channel
}

func (m *memRegistry) Lookup(_ context.Context, channelID string) (domain.Channel, bool, error) {
	ch, ok := m.channels[channelID]
	return ch, ok, nil
}

// memLedger mirrors the store's upsert-with-increment contract.
type memLedger struct {
	mu      sync.Mutex
	entries map[string]int64
	err     error
}

func ledgerKey(userID, channelID string, monthKey time.Time) string {
	return userID + "|" + channelID + "|" + monthKey.Format("2006-01-02")
}

func (m *memLedger) Credit(_ context.Context, userID, channelID string, monthKey time.Time, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.entries == nil {
		m.entries = make(map[string]int64)
	}
	m.entries[ledgerKey(userID, channelID, domain.MonthOf(monthKey))] += amount
	return nil
}

func (m *memLedger) points(userID, channelID string, monthKey time.Time) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[ledgerKey(userID, channelID, monthKey)]
}

func (m *memLedger) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

type staticWindows struct{ active bool }

func (s staticWindows) IsActive(context.Context, string, time.Time) (bool, error) {
	return s.active, nil
}

func startProcessor(t *testing.T, registry Registry, ledger Ledger, windowActive bool) *Processor {
	t.Helper()
	engine := scoring.NewEngine(staticWindows{active: windowActive}, 3, 1)
	p := NewProcessor(registry, engine, ledger, "bot-user", 64, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	p.Start(ctx)
	return p
}

func TestProcessor_CreditsAccumulate(t *testing.T) {
	registry := &memRegistry{channels: map[string]domain.Channel{
		"c1": {ID: "c1", Kind: domain.KindPost, Category: "writing"},
	}}
	ledger := &memLedger{}
	p := startProcessor(t, registry, ledger, true)

	at := time.Date(2026, 8, 12, 10, 0, 0, 0, time.UTC)
	month := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	// post kind inside an active window: 3*2 = 6 per event
	require.True(t, p.Enqueue(domain.MessageEvent{AuthorID: "u1", ChannelID: "c1", Timestamp: at.Unix()}))
	require.Eventually(t, func() bool {
		return ledger.points("u1", "c1", month) == 6
	}, time.Second, 5*time.Millisecond)

	require.True(t, p.Enqueue(domain.MessageEvent{AuthorID: "u1", ChannelID: "c1", Timestamp: at.Add(time.Hour).Unix()}))
	require.Eventually(t, func() bool {
		return ledger.points("u1", "c1", month) == 12
	}, time.Second, 5*time.Millisecond)
}

func TestProcessor_NewMonthStartsFreshEntry(t *testing.T) {
	registry := &memRegistry{channels: map[string]domain.Channel{
		"c1": {ID: "c1", Kind: domain.KindPost, Category: "writing"},
	}}
	ledger := &memLedger{}
	p := startProcessor(t, registry, ledger, false)

	aug := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	sep := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)

	require.True(t, p.Enqueue(domain.MessageEvent{AuthorID: "u1", ChannelID: "c1", Timestamp: aug.Unix()}))
	require.True(t, p.Enqueue(domain.MessageEvent{AuthorID: "u1", ChannelID: "c1", Timestamp: sep.Unix()}))

	require.Eventually(t, func() bool { return ledger.size() == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(3), ledger.points("u1", "c1", domain.MonthOf(aug)))
	assert.Equal(t, int64(3), ledger.points("u1", "c1", domain.MonthOf(sep)))
}

func TestProcessor_IgnoresOwnIdentity(t *testing.T) {
	registry := &memRegistry{channels: map[string]domain.Channel{
		"c1": {ID: "c1", Kind: domain.KindPost, Category: "writing"},
	}}
	ledger := &memLedger{}
	p := startProcessor(t, registry, ledger, false)

	require.True(t, p.Enqueue(domain.MessageEvent{AuthorID: "bot-user", ChannelID: "c1", Timestamp: time.Now().Unix()}))
	// give the worker a beat, then confirm nothing was written
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, ledger.size())
}

func TestProcessor_UnregisteredChannelNoMutation(t *testing.T) {
	registry := &memRegistry{channels: map[string]domain.Channel{}}
	ledger := &memLedger{}
	p := startProcessor(t, registry, ledger, false)

	require.True(t, p.Enqueue(domain.MessageEvent{AuthorID: "u1", ChannelID: "nowhere", Timestamp: time.Now().Unix()}))
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, ledger.size())
}

func TestProcessor_CreditFailureDropsEventOnly(t *testing.T) {
	registry := &memRegistry{channels: map[string]domain.Channel{
		"c1": {ID: "c1", Kind: domain.KindQA, Category: "career"},
	}}
	ledger := &memLedger{err: errors.New("write rejected")}
	p := startProcessor(t, registry, ledger, false)

	require.True(t, p.Enqueue(domain.MessageEvent{AuthorID: "u1", ChannelID: "c1", Timestamp: time.Now().Unix()}))
	time.Sleep(50 * time.Millisecond)

	// the worker is still alive and serves the next event once the store recovers
	ledger.mu.Lock()
	ledger.err = nil
	ledger.mu.Unlock()
	at := time.Date(2026, 8, 12, 10, 0, 0, 0, time.UTC)
	require.True(t, p.Enqueue(domain.MessageEvent{AuthorID: "u2", ChannelID: "c1", Timestamp: at.Unix()}))
	require.Eventually(t, func() bool {
		return ledger.points("u2", "c1", domain.MonthOf(at)) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestProcessor_EnqueueRejectsWhenFull(t *testing.T) {
	// No Start call: nothing drains the queue.
	p := NewProcessor(&memRegistry{}, nil, &memLedger{}, "bot-user", 2, nil, nil)

	ev := domain.MessageEvent{AuthorID: "u1", ChannelID: "c1", Timestamp: time.Now().Unix()}
	assert.True(t, p.Enqueue(ev))
	assert.True(t, p.Enqueue(ev))
	assert.False(t, p.Enqueue(ev))
}

func TestProcessor_FinalTotalIsSumOfScores(t *testing.T) {
	registry := &memRegistry{channels: map[string]domain.Channel{
		"post": {ID: "post", Kind: domain.KindPost, Category: "writing"},
		"qa":   {ID: "qa", Kind: domain.KindQA, Category: "career"},
	}}
	ledger := &memLedger{}
	p := startProcessor(t, registry, ledger, false)

	at := time.Date(2026, 8, 12, 10, 0, 0, 0, time.UTC)
	month := domain.MonthOf(at)

	// interleave channels; per-key totals must equal the sum of each
	// event's score regardless of arrival order
	for i := 0; i < 4; i++ {
		require.True(t, p.Enqueue(domain.MessageEvent{AuthorID: "u1", ChannelID: "post", Timestamp: at.Unix()}))
		require.True(t, p.Enqueue(domain.MessageEvent{AuthorID: "u1", ChannelID: "qa", Timestamp: at.Unix()}))
	}

	require.Eventually(t, func() bool {
		return ledger.points("u1", "post", month) == 12 && ledger.points("u1", "qa", month) == 4
	}, time.Second, 5*time.Millisecond)
}
