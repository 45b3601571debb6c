package board

import (
	"sync"
	"time"
)

// Scheduler drives the poll cadence. Start begins delivering ticks to onTick;
// Stop halts delivery and is the only cancellation primitive. Each tick runs
// to completion before the next is delivered.
type Scheduler interface {
	Start(onTick func())
	Stop()
}

// TickerScheduler delivers ticks on a fixed interval from a single goroutine.
type TickerScheduler struct {
	interval time.Duration

	mu   sync.Mutex
	done chan struct{}
}

// NewTickerScheduler creates a scheduler with the given poll interval.
func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	return &TickerScheduler{interval: interval}
}

// Start begins ticking. Calling Start on a running scheduler is a no-op.
func (s *TickerScheduler) Start(onTick func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return
	}
	done := make(chan struct{})
	s.done = done

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				onTick()
			}
		}
	}()
}

// Stop halts ticking. Safe to call more than once, including from within a
// tick; a tick already in flight runs to completion.
func (s *TickerScheduler) Stop() {
	s.mu.Lock()
	done := s.done
	s.done = nil
	s.mu.Unlock()
	if done == nil {
		return
	}
	close(done)
}

// Poller couples a Reconciler with a Scheduler for headless operation. It
// stops its scheduler on the tick where the completion gate fires.
type Poller struct {
	rec      *Reconciler
	sched    Scheduler
	onUpdate func(Outcome)
}

// NewPoller creates a poller. onUpdate may be nil.
func NewPoller(rec *Reconciler, sched Scheduler, onUpdate func(Outcome)) *Poller {
	return &Poller{rec: rec, sched: sched, onUpdate: onUpdate}
}

// Start begins polling.
func (p *Poller) Start() {
	p.sched.Start(p.tick)
}

// Stop halts polling.
func (p *Poller) Stop() {
	p.sched.Stop()
}

func (p *Poller) tick() {
	outcome := p.rec.Tick()
	if p.onUpdate != nil {
		p.onUpdate(outcome)
	}
	if outcome.Completed {
		p.sched.Stop()
	}
}
