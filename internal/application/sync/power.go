package sync

// PowerState tracks the host's power/session state. It gates everything:
// while the system is asleep or the screen is locked, the engine is paused
// regardless of connection mode.
type PowerState string

const (
	PowerAwake    PowerState = "awake"
	PowerSleeping PowerState = "sleeping"
	PowerLocked   PowerState = "locked"
)

// PowerSignal is one of the four external power events the OS delivers,
// covering suspend/resume and session lock/unlock.
type PowerSignal string

const (
	SignalSleep  PowerSignal = "sleep"
	SignalWake   PowerSignal = "wake"
	SignalLock   PowerSignal = "lock"
	SignalUnlock PowerSignal = "unlock"
)

// powerTracker is a pure reducer over the four power signals. A signal that
// does not change state is a no-op. Owned by the engine loop goroutine.
type powerTracker struct {
	state PowerState
}

func newPowerTracker() *powerTracker {
	return &powerTracker{state: PowerAwake}
}

func (t *powerTracker) current() PowerState {
	return t.state
}

func (t *powerTracker) awake() bool {
	return t.state == PowerAwake
}

// reduce applies a signal and returns the resulting state along with
// whether it changed.
func (t *powerTracker) reduce(sig PowerSignal) (PowerState, bool) {
	next := t.state
	switch sig {
	case SignalSleep:
		next = PowerSleeping
	case SignalLock:
		next = PowerLocked
	case SignalWake, SignalUnlock:
		next = PowerAwake
	}

	if next == t.state {
		return t.state, false
	}
	t.state = next
	return next, true
}
