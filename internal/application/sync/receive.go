package sync

import (
	"github.com/ghostcopy/ghostd/internal/domain/clip"
)

// handleRemoteItem runs the inbound eligibility checks and debounce. Both
// the push callback and the polling tick funnel through here, so a burst of
// rapid inserts collapses into a single apply of the newest record.
func (e *Engine) handleRemoteItem(item *clip.Item) {
	if item == nil {
		return
	}
	e.counters.received.Add(1)

	// No self-receive.
	if item.DeviceName == e.cfg.DeviceName {
		return
	}

	// Push delivery is at-least-once; absorb redelivered events.
	if item.ID != "" {
		if _, dup := e.seen.Get(item.ID); dup {
			return
		}
		e.seen.Add(item.ID, struct{}{})
		e.lastSeenID = item.ID
	}

	if !item.TargetedAt(e.cfg.DeviceType) {
		return
	}
	if !e.power.awake() {
		return
	}

	// A newer eligible record replaces the pending one and restarts the
	// window; it never queues behind it.
	e.pending = item
	if e.debounce != nil {
		e.debounce.Stop()
	}
	e.debounce = e.clock.NewTimer(e.cfg.DebounceInterval)
	e.debounceC = e.debounce.Chan()
}

// handleDebounceFire hands the pending record to the auto-receive decision.
func (e *Engine) handleDebounceFire() {
	item := e.pending
	e.pending = nil
	e.debounce = nil
	e.debounceC = nil
	if item == nil {
		return
	}
	e.decideReceive(item)
}

// handlePollTick is the polling-fallback receive path: fetch the newest
// stored item and synthesize one receive event when it changed.
func (e *Engine) handlePollTick() {
	if e.pollInFlight {
		return
	}
	e.pollInFlight = true
	go func() {
		items, err := e.cfg.Repository.GetHistory(e.runCtx, 1)
		e.post(func() {
			e.pollInFlight = false
			if err != nil {
				e.logger.Warn("poll failed", "error", err)
				return
			}
			if len(items) == 0 {
				return
			}
			latest := items[0]
			if latest.ID != "" && latest.ID == e.lastSeenID {
				return
			}
			e.lastSeenID = latest.ID
			e.handleRemoteItem(latest)
		})
	}()
}
