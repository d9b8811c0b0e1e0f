package sync

// Mode is the engine's connection mode: which receive transport, if any, is
// currently live.
type Mode string

const (
	// ModeRealtime keeps a push subscription open for low-latency delivery.
	ModeRealtime Mode = "realtime"

	// ModePolling checks the store on a fixed interval. Used when the
	// device has been idle and hidden for a while, or when push is
	// unavailable.
	ModePolling Mode = "polling"

	// ModePaused halts all network activity. Entered on system sleep or
	// screen lock.
	ModePaused Mode = "paused"
)

// modeHooks are invoked on entry into each mode. Exactly one of the push
// subscription and the polling timer is live in Realtime/Polling; Paused
// tears down both plus the local clipboard monitor.
type modeHooks struct {
	enterRealtime func()
	enterPolling  func()
	enterPaused   func()
}

// modeController supervises the connection mode. It is owned by the engine
// loop goroutine and needs no locking.
type modeController struct {
	mode  Mode
	hooks modeHooks
}

func newModeController(hooks modeHooks) *modeController {
	return &modeController{hooks: hooks}
}

// current returns the current mode.
func (c *modeController) current() Mode {
	return c.mode
}

// set transitions to m, firing the entry hook. Re-entering the current mode
// is a no-op. Returns whether a transition happened.
func (c *modeController) set(m Mode) bool {
	if m == c.mode {
		return false
	}
	c.mode = m

	switch m {
	case ModeRealtime:
		if c.hooks.enterRealtime != nil {
			c.hooks.enterRealtime()
		}
	case ModePolling:
		if c.hooks.enterPolling != nil {
			c.hooks.enterPolling()
		}
	case ModePaused:
		if c.hooks.enterPaused != nil {
			c.hooks.enterPaused()
		}
	}
	return true
}
