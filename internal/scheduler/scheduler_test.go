package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProvisioner struct {
	mu    sync.Mutex
	calls []time.Time
	err   error
}

func (r *recordingProvisioner) Provision(_ context.Context, _ string, start time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, start)
	return r.err
}

func (r *recordingProvisioner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

type recordingRunner struct {
	mu    sync.Mutex
	calls []time.Time
	err   error
}

func (r *recordingRunner) Run(_ context.Context, monthKey time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, monthKey)
	return r.err
}

func (r *recordingRunner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func newTestScheduler(p WindowProvisioner, l LeaderboardRunner, now time.Time) *Scheduler {
	s := New(p, l, "charge-channel", time.Hour, time.Hour, nil, nil)
	s.SetNow(func() time.Time { return now })
	return s
}

func TestScheduler_FiresBothCyclesImmediately(t *testing.T) {
	prov := &recordingProvisioner{}
	runner := &recordingRunner{}
	now := time.Date(2026, 8, 17, 10, 0, 0, 0, time.UTC) // not day 1

	s := newTestScheduler(prov, runner, now)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return prov.count() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC), prov.calls[0])
	assert.Zero(t, runner.count(), "leaderboard must not run off day 1")
}

func TestScheduler_DailyCycleRunsOnDayOne(t *testing.T) {
	prov := &recordingProvisioner{}
	runner := &recordingRunner{}
	now := time.Date(2026, 9, 1, 0, 5, 0, 0, time.UTC)

	s := newTestScheduler(prov, runner, now)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return runner.count() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), runner.calls[0])
}

func TestScheduler_TicksKeepFiring(t *testing.T) {
	prov := &recordingProvisioner{}
	runner := &recordingRunner{}
	now := time.Date(2026, 8, 17, 10, 0, 0, 0, time.UTC)

	s := New(prov, runner, "charge-channel", 10*time.Millisecond, time.Hour, nil, nil)
	s.SetNow(func() time.Time { return now })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return prov.count() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestScheduler_CycleFailureDoesNotStopLoop(t *testing.T) {
	prov := &recordingProvisioner{err: errors.New("store down")}
	runner := &recordingRunner{err: errors.New("store down")}
	now := time.Date(2026, 9, 1, 0, 5, 0, 0, time.UTC)

	s := New(prov, runner, "charge-channel", 10*time.Millisecond, 10*time.Millisecond, nil, nil)
	s.SetNow(func() time.Time { return now })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	// Both cycles keep retrying on their next tick despite the errors.
	require.Eventually(t, func() bool {
		return prov.count() >= 2 && runner.count() >= 2
	}, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
