package board

import (
	"sync"
	"time"
)

// DefaultSweepInterval is how often expired actions are collected.
const DefaultSweepInterval = 2000 * time.Millisecond

// Sweeper periodically removes expired actions from a session. Stop it when
// the session goes away or the ticker goroutine leaks.
type Sweeper struct {
	done chan struct{}
	once sync.Once
}

// NewSweeper starts sweeping the session. An interval of 0 uses
// DefaultSweepInterval.
func NewSweeper(s *Session, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	sw := &Sweeper{done: make(chan struct{})}
	go sw.run(s, interval)
	return sw
}

func (sw *Sweeper) run(s *Session, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Sweep(s.now())
		case <-sw.done:
			return
		}
	}
}

// Stop halts the sweeper. Safe to call more than once.
func (sw *Sweeper) Stop() {
	sw.once.Do(func() { close(sw.done) })
}
