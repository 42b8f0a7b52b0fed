package quiz

import (
	"context"
	"time"
)

// Runner drives a Session with wall-clock time. For each timed phase it
// starts a Countdown whose ticks feed Session.TickIn; when the session
// leaves a phase early (an answer arrived, or a client clicked through) the
// stale countdown is stopped before the next one starts.
type Runner struct {
	session  *Session
	interval time.Duration
}

// NewRunner builds a runner ticking at the given interval (one second in
// production; shorter in tests).
func NewRunner(session *Session, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = time.Second
	}
	return &Runner{session: session, interval: interval}
}

// Run blocks until the session finishes or ctx is canceled.
func (r *Runner) Run(ctx context.Context) error {
	snaps, cancel := r.session.Subscribe()
	defer cancel()

	var cd *Countdown
	stopCountdown := func() {
		if cd != nil {
			cd.Stop()
			cd = nil
		}
	}
	defer stopCountdown()

	start := func(snap Snapshot) {
		stopCountdown()
		if snap.Phase == PhaseFinished || snap.Remaining <= 0 {
			return
		}
		phase := snap.Phase
		cd = NewCountdown(time.Duration(snap.Remaining)*r.interval, r.interval, func(time.Duration) {
			// Pinned to the phase this countdown was started for, so a tick
			// racing the stop after an early transition cannot land in the
			// successor phase.
			r.session.TickIn(phase)
		}, nil)
		cd.Start()
	}

	last := r.session.Snapshot()
	start(last)
	if last.Phase == PhaseFinished {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snap, ok := <-snaps:
			if !ok {
				return nil
			}
			if snap.Phase == PhaseFinished {
				return nil
			}
			if snap.Phase != last.Phase {
				start(snap)
			}
			last = snap
		}
	}
}
