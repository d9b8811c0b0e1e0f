package sync

import (
	"sync/atomic"
	"time"
)

// Stats is a point-in-time snapshot of engine counters and state.
type Stats struct {
	Sent             uint64     `json:"sent"`
	Received         uint64     `json:"received"`
	Applied          uint64     `json:"applied"`
	Prompted         uint64     `json:"prompted"`
	DroppedRateLimit uint64     `json:"dropped_rate_limit"`
	DroppedDuplicate uint64     `json:"dropped_duplicate"`
	DroppedSensitive uint64     `json:"dropped_sensitive"`
	SendErrors       uint64     `json:"send_errors"`
	ReceiveErrors    uint64     `json:"receive_errors"`
	Mode             Mode       `json:"mode"`
	Power            PowerState `json:"power"`
	StartTime        time.Time  `json:"start_time"`
}

// counters holds the engine's atomic counters. The loop goroutine is the
// only writer; Stats() may read from any goroutine.
type counters struct {
	sent             atomic.Uint64
	received         atomic.Uint64
	applied          atomic.Uint64
	prompted         atomic.Uint64
	droppedRateLimit atomic.Uint64
	droppedDuplicate atomic.Uint64
	droppedSensitive atomic.Uint64
	sendErrors       atomic.Uint64
	receiveErrors    atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Sent:             c.sent.Load(),
		Received:         c.received.Load(),
		Applied:          c.applied.Load(),
		Prompted:         c.prompted.Load(),
		DroppedRateLimit: c.droppedRateLimit.Load(),
		DroppedDuplicate: c.droppedDuplicate.Load(),
		DroppedSensitive: c.droppedSensitive.Load(),
		SendErrors:       c.sendErrors.Load(),
		ReceiveErrors:    c.receiveErrors.Load(),
	}
}
