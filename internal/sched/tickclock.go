// internal/sched/tickclock.go

package sched

import (
	"sync/atomic"
	"time"
)

// TickClock plays the role of the timer interrupt: it fans each tick into
// the attached schedulers and counts ticks atomically. The channel carries
// the same ticks to the main loop so it can interleave dispatch passes.
type TickClock struct {
	Ch    chan struct{}
	sinks []Ticker
	count atomic.Int64
	stop  chan struct{}
}

// NewTickClock creates a clock driving the given sinks. Attach every sink
// here; the sink list is fixed once Start is called.
func NewTickClock(buffer int, sinks ...Ticker) *TickClock {
	return &TickClock{
		Ch:    make(chan struct{}, buffer),
		sinks: sinks,
		stop:  make(chan struct{}),
	}
}

// Start begins emitting ticks at the given interval. Each tick advances all
// sinks before it is published on Ch.
func (c *TickClock) Start(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.count.Add(1)
				for _, s := range c.sinks {
					s.Tick()
				}
				c.Ch <- struct{}{}
			case <-c.stop:
				close(c.Ch)
				return
			}
		}
	}()
}

// Stop signals the clock to stop emitting ticks.
func (c *TickClock) Stop() {
	close(c.stop)
}

// Count returns the current tick count atomically.
func (c *TickClock) Count() int64 {
	return c.count.Load()
}
