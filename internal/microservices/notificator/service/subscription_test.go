package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"restaurant-ops/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSource emits events, then either blocks until canceled or fails.
type scriptedSource struct {
	events  []domain.ChangeEvent
	failErr error

	watches atomic.Int32
	sent    atomic.Int32
	exited  atomic.Int32
}

func (s *scriptedSource) Watch(ctx context.Context, out chan<- domain.ChangeEvent) error {
	s.watches.Add(1)
	defer s.exited.Add(1)
	for _, ev := range s.events {
		select {
		case out <- ev:
			s.sent.Add(1)
		case <-ctx.Done():
			return nil
		}
	}
	if s.failErr != nil {
		return s.failErr
	}
	<-ctx.Done()
	return nil
}

func events(n int) []domain.ChangeEvent {
	out := make([]domain.ChangeEvent, n)
	for i := range out {
		out[i] = domain.ChangeEvent{OperationType: domain.OpInsert}
	}
	return out
}

const waitFor = 2 * time.Second
const tick = 5 * time.Millisecond

func TestSubscription_ProcessesEveryEvent(t *testing.T) {
	src := &scriptedSource{events: events(5)}
	var mu sync.Mutex
	var seen int
	sub := NewSubscription("orders", src, func(context.Context, domain.ChangeEvent) error {
		mu.Lock()
		defer mu.Unlock()
		seen++
		return nil
	}, 2, zerolog.Nop())

	sub.Start(context.Background())
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return seen == 5
	}, waitFor, tick)

	sub.Stop()
	assert.False(t, sub.Active())
	assert.Equal(t, int32(1), src.exited.Load())
}

func TestSubscription_Backpressure(t *testing.T) {
	const depth = 3
	src := &scriptedSource{events: events(10)}
	release := make(chan struct{})
	sub := NewSubscription("orders", src, func(ctx context.Context, _ domain.ChangeEvent) error {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	}, depth, zerolog.Nop())

	sub.Start(context.Background())
	defer sub.Stop()

	// One event held by the consumer, depth events buffered, the pump blocked.
	require.Eventually(t, func() bool { return sub.Depth() == depth }, waitFor, tick)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(depth+1), src.sent.Load())
	assert.Equal(t, depth, sub.Depth())

	close(release)
	assert.Eventually(t, func() bool { return src.sent.Load() == 10 && sub.Depth() == 0 }, waitFor, tick)
}

func TestSubscription_HandlerErrorsDoNotStopStream(t *testing.T) {
	src := &scriptedSource{events: events(3)}
	var calls atomic.Int32
	sub := NewSubscription("tables", src, func(context.Context, domain.ChangeEvent) error {
		calls.Add(1)
		return errors.New("lookup failed")
	}, 1, zerolog.Nop())

	sub.Start(context.Background())
	defer sub.Stop()

	assert.Eventually(t, func() bool { return calls.Load() == 3 }, waitFor, tick)
	assert.True(t, sub.Active())
}

func TestSubscription_DeadStreamReportsInactive(t *testing.T) {
	src := &scriptedSource{failErr: errors.New("change stream requires a replica set")}
	sub := NewSubscription("orders", src, func(context.Context, domain.ChangeEvent) error { return nil }, 1, zerolog.Nop())

	sub.Start(context.Background())
	assert.Eventually(t, func() bool { return !sub.Active() }, waitFor, tick)

	sub.Start(context.Background())
	assert.Eventually(t, func() bool { return src.watches.Load() == 2 }, waitFor, tick)
	sub.Stop()
}

func newManager(orders, tables *scriptedSource) *TriggerManager {
	noop := func(context.Context, domain.ChangeEvent) error { return nil }
	return NewTriggerManager(context.Background(),
		NewSubscription("orders", orders, noop, 4, zerolog.Nop()),
		NewSubscription("tables", tables, noop, 4, zerolog.Nop()),
		zerolog.Nop(),
	)
}

func TestControlTriggers_Idempotent(t *testing.T) {
	orders, tables := &scriptedSource{}, &scriptedSource{}
	m := newManager(orders, tables)
	defer m.Shutdown()

	state := m.ControlTriggers(true, false)
	assert.Equal(t, TriggerState{OrderWatching: true}, state)

	state = m.ControlTriggers(true, false)
	assert.Equal(t, TriggerState{OrderWatching: true}, state)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), orders.watches.Load())
	assert.Zero(t, tables.watches.Load())
	assert.Equal(t, state, m.State())
}

func TestControlTriggers_StopCancelsStream(t *testing.T) {
	orders, tables := &scriptedSource{}, &scriptedSource{}
	m := newManager(orders, tables)

	state := m.ControlTriggers(true, true)
	assert.Equal(t, TriggerState{OrderWatching: true, TableWatching: true}, state)

	state = m.ControlTriggers(false, true)
	assert.Equal(t, TriggerState{TableWatching: true}, state)
	assert.Equal(t, int32(1), orders.exited.Load())
	assert.Zero(t, tables.exited.Load())

	state = m.ControlTriggers(false, false)
	assert.Equal(t, TriggerState{}, state)
	assert.Equal(t, int32(1), tables.exited.Load())

	// Stopping again is a no-op.
	assert.Equal(t, TriggerState{}, m.ControlTriggers(false, false))
}

func TestControlTriggers_RestartsDeadStream(t *testing.T) {
	orders := &scriptedSource{failErr: errors.New("cursor killed")}
	m := newManager(orders, &scriptedSource{})
	defer m.Shutdown()

	m.ControlTriggers(true, false)
	require.Eventually(t, func() bool { return !m.State().OrderWatching }, waitFor, tick)

	m.ControlTriggers(true, false)
	assert.Eventually(t, func() bool { return orders.watches.Load() == 2 }, waitFor, tick)
}

func TestTriggerStatus_ReportsDepth(t *testing.T) {
	m := newManager(&scriptedSource{}, &scriptedSource{})
	status := m.Status()
	assert.False(t, status.OrderWatching)
	assert.Zero(t, status.OrderQueueDepth)
	assert.Zero(t, status.TableQueueDepth)
}
