package quiz

import (
	"sync"
	"time"
)

// Countdown decrements a remaining duration once per interval, invoking an
// optional per-tick callback and a zero-crossing callback exactly once.
// Stop tears down the pending timer so no stale callback fires into a state
// the owner has already left.
type Countdown struct {
	interval  time.Duration
	remaining time.Duration
	onTick    func(remaining time.Duration)
	onZero    func()

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewCountdown builds a countdown of the given duration. Callbacks may be
// nil. Start must be called to begin ticking.
func NewCountdown(d, interval time.Duration, onTick func(remaining time.Duration), onZero func()) *Countdown {
	return &Countdown{
		interval:  interval,
		remaining: d,
		onTick:    onTick,
		onZero:    onZero,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the ticking goroutine.
func (c *Countdown) Start() {
	go c.run()
}

// Stop cancels the countdown. It is safe to call more than once and after
// the zero crossing. Stop does not wait for an in-flight callback.
func (c *Countdown) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Done is closed once the countdown has fired its zero callback or been
// stopped.
func (c *Countdown) Done() <-chan struct{} {
	return c.done
}

func (c *Countdown) run() {
	defer close(c.done)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.remaining -= c.interval
			if c.onTick != nil {
				c.onTick(c.remaining)
			}
			if c.remaining <= 0 {
				if c.onZero != nil {
					c.onZero()
				}
				return
			}
		}
	}
}
