package engine

import (
	"context"
	"log"
	"time"
)

// Sweeper periodically expires overdue holds. It runs on a single goroutine,
// so a sweep never overlaps another sweep; slot releases go through the same
// per-room sections as every other mutation.
type Sweeper struct {
	engine   *Engine
	interval time.Duration
}

// NewSweeper creates a sweeper ticking at the given interval.
func NewSweeper(e *Engine, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Sweeper{engine: e, interval: interval}
}

// Run sweeps immediately and then on every tick until the context is
// cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	log.Printf("hold sweeper started, interval %s", s.interval)

	s.sweep(ctx)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("hold sweeper shutting down")
			return
		case <-timer.C:
			s.sweep(ctx)
			timer.Reset(s.interval)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	if err := s.engine.ExpireDue(ctx, s.engine.clock.Now()); err != nil {
		log.Printf("hold sweep: %v", err)
	}
}
