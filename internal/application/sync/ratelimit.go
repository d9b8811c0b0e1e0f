package sync

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// rateLimiter enforces a minimum spacing between accepted outgoing sends.
// Violations are dropped, never queued or retried later.
type rateLimiter struct {
	clock clockwork.Clock
	min   time.Duration
	last  time.Time
}

func newRateLimiter(clock clockwork.Clock, min time.Duration) *rateLimiter {
	return &rateLimiter{clock: clock, min: min}
}

// allow reports whether a send may proceed now, recording the acceptance
// timestamp when it does.
func (r *rateLimiter) allow() bool {
	now := r.clock.Now()
	if !r.last.IsZero() && now.Sub(r.last) < r.min {
		return false
	}
	r.last = now
	return true
}
