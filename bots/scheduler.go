// Package bots drives the automated producers: a fixed-cadence tick sweep
// checks which bots are due, runs their content strategies in isolation, and
// feeds the results into the store and the event stream.
package bots

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tickersim/tickersim/events"
	"github.com/tickersim/tickersim/models"
	"github.com/tickersim/tickersim/store"
)

const (
	// DefaultTickInterval matches the original 30s cron sweep.
	DefaultTickInterval = 30 * time.Second

	// defaultProduceTimeout bounds a single strategy run so one hung
	// producer cannot hold its slot forever.
	defaultProduceTimeout = 20 * time.Second
)

type Scheduler struct {
	store     *store.Store
	events    *events.EventManager
	producers []*Producer

	tickInterval   time.Duration
	produceTimeout time.Duration

	lk       sync.Mutex
	lastRun  map[string]time.Time
	inFlight map[string]struct{}

	// now is swapped out in tests
	now func() time.Time

	log *slog.Logger
}

func NewScheduler(s *store.Store, em *events.EventManager, producers []*Producer, tickInterval time.Duration) *Scheduler {
	if tickInterval <= 0 {
		tickInterval = DefaultTickInterval
	}
	return &Scheduler{
		store:          s,
		events:         em,
		producers:      producers,
		tickInterval:   tickInterval,
		produceTimeout: defaultProduceTimeout,
		lastRun:        make(map[string]time.Time),
		inFlight:       make(map[string]struct{}),
		now:            time.Now,
		log:            slog.Default().With("system", "bots"),
	}
}

// Run drives the tick loop until the context is cancelled. The first sweep
// fires immediately; every producer starts out due.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info("bot scheduler starting", "producers", len(s.producers), "tick", s.tickInterval)

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-ctx.Done():
			s.log.Info("bot scheduler stopping")
			return
		}
	}
}

// tick sweeps all producers in roster order. Each due producer runs in its
// own goroutine so a slow strategy never delays the others or the next sweep.
func (s *Scheduler) tick(ctx context.Context) {
	now := s.now()
	for _, p := range s.producers {
		if !s.claim(p, now) {
			continue
		}
		go func(p *Producer) {
			defer s.release(p.ID)
			s.runProducer(ctx, p, now)
		}(p)
	}
}

// claim decides whether the producer runs this tick. A producer still busy
// from an earlier tick is skipped, not duplicated.
func (s *Scheduler) claim(p *Producer, now time.Time) bool {
	s.lk.Lock()
	defer s.lk.Unlock()

	if _, busy := s.inFlight[p.ID]; busy {
		botRuns.WithLabelValues(p.ID, "skipped").Inc()
		return false
	}
	last, ran := s.lastRun[p.ID]
	if ran && now.Sub(last) < p.Interval {
		return false
	}
	s.inFlight[p.ID] = struct{}{}
	return true
}

func (s *Scheduler) release(botID string) {
	s.lk.Lock()
	defer s.lk.Unlock()
	delete(s.inFlight, botID)
}

func (s *Scheduler) setLastRun(botID string, t time.Time) {
	s.lk.Lock()
	defer s.lk.Unlock()
	s.lastRun[botID] = t
}

// runProducer executes one strategy run. lastRun only advances when the
// strategy completes without error, so a failing producer is retried on the
// next tick with its old due time intact.
func (s *Scheduler) runProducer(ctx context.Context, p *Producer, now time.Time) {
	ctx, cancel := context.WithTimeout(ctx, s.produceTimeout)
	defer cancel()

	content, err := p.Strategy.Produce(ctx)
	if err != nil {
		botRuns.WithLabelValues(p.ID, "error").Inc()
		s.log.Error("bot content production failed", "bot", p.ID, "err", err)
		return
	}
	if content == nil {
		// nothing to post this tick; the run itself succeeded
		botRuns.WithLabelValues(p.ID, "empty").Inc()
		s.setLastRun(p.ID, now)
		return
	}

	post, err := s.store.AddPost(models.Draft{
		Content:      content.Text,
		AuthorID:     p.ID,
		AuthorName:   p.Name,
		AuthorHandle: p.Handle,
		AuthorAvatar: p.Avatar,
		Stocks:       content.Stocks,
		IsBot:        true,
	})
	if err != nil {
		botRuns.WithLabelValues(p.ID, "error").Inc()
		s.log.Error("bot post append failed", "bot", p.ID, "err", err)
		return
	}

	if err := s.events.Publish(post); err != nil {
		s.log.Warn("bot post broadcast failed", "bot", p.ID, "err", err)
	}

	botRuns.WithLabelValues(p.ID, "ok").Inc()
	s.setLastRun(p.ID, now)
}
