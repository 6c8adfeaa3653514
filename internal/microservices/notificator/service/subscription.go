package service

import (
	"context"
	"sync"

	"restaurant-ops/internal/common/metrics"
	"restaurant-ops/internal/domain"
	"restaurant-ops/internal/microservices/notificator/repository"

	"github.com/rs/zerolog"
)

// EventHandler processes one change event.
type EventHandler func(ctx context.Context, ev domain.ChangeEvent) error

// Subscription couples a change source with its handler. A pump goroutine
// feeds a bounded queue and a single consumer drains it in order; a full
// queue blocks the pump.
type Subscription struct {
	name   string
	source repository.ChangeSource
	handle EventHandler
	depth  int
	log    zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	events chan domain.ChangeEvent
	done   chan struct{}
}

func NewSubscription(name string, source repository.ChangeSource, handle EventHandler, depth int, log zerolog.Logger) *Subscription {
	if depth < 1 {
		depth = 1
	}
	return &Subscription{
		name:   name,
		source: source,
		handle: handle,
		depth:  depth,
		log:    log.With().Str("stream", name).Logger(),
	}
}

func (s *Subscription) Name() string { return s.name }

// Start opens the stream under parent unless the subscription is already running.
func (s *Subscription) Start(parent context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeLocked() {
		return
	}
	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithCancel(parent)
	events := make(chan domain.ChangeEvent, s.depth)
	done := make(chan struct{})
	s.cancel, s.events, s.done = cancel, events, done

	go func() {
		defer close(events)
		if err := s.source.Watch(ctx, events); err != nil {
			s.log.Error().Err(err).Msg("change stream stopped")
		}
	}()

	go func() {
		defer close(done)
		defer metrics.WatchQueueDepth.WithLabelValues(s.name).Set(0)
		for ev := range events {
			metrics.WatchQueueDepth.WithLabelValues(s.name).Set(float64(len(events)))
			if ctx.Err() != nil {
				continue
			}
			s.process(ctx, ev)
		}
	}()

	s.log.Info().Int("queue_depth", s.depth).Msg("subscription started")
}

func (s *Subscription) process(ctx context.Context, ev domain.ChangeEvent) {
	if err := s.handle(ctx, ev); err != nil {
		metrics.ChangeEvents.WithLabelValues(s.name, metrics.ResultFailure).Inc()
		s.log.Error().Err(err).
			Str("document_id", ev.DocumentKey.ID.Hex()).
			Str("operation", ev.OperationType).
			Msg("change event not processed")
		return
	}
	metrics.ChangeEvents.WithLabelValues(s.name, metrics.ResultSuccess).Inc()
}

// Stop cancels the stream and waits for both goroutines to exit. Events
// still queued are dropped.
func (s *Subscription) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.events, s.done = nil, nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.log.Info().Msg("subscription stopped")
}

// Active is false before Start, after Stop and after the stream has died.
func (s *Subscription) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeLocked()
}

func (s *Subscription) activeLocked() bool {
	if s.done == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// Depth reports how many events are waiting for the consumer.
func (s *Subscription) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}
