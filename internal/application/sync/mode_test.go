package sync

import "testing"

func TestModeControllerTransitions(t *testing.T) {
	var realtime, polling, paused int
	c := newModeController(modeHooks{
		enterRealtime: func() { realtime++ },
		enterPolling:  func() { polling++ },
		enterPaused:   func() { paused++ },
	})

	if !c.set(ModeRealtime) {
		t.Fatal("first transition to realtime should report a change")
	}
	if realtime != 1 {
		t.Fatalf("enterRealtime fired %d times, want 1", realtime)
	}

	if c.set(ModeRealtime) {
		t.Error("re-entering the current mode should be a no-op")
	}
	if realtime != 1 {
		t.Errorf("enterRealtime fired %d times after re-entry, want 1", realtime)
	}

	if !c.set(ModePolling) {
		t.Fatal("transition to polling should report a change")
	}
	if polling != 1 {
		t.Fatalf("enterPolling fired %d times, want 1", polling)
	}

	if !c.set(ModePaused) {
		t.Fatal("transition to paused should report a change")
	}
	if paused != 1 {
		t.Fatalf("enterPaused fired %d times, want 1", paused)
	}

	if !c.set(ModeRealtime) {
		t.Fatal("resuming realtime from paused should report a change")
	}
	if realtime != 2 {
		t.Errorf("enterRealtime fired %d times, want 2", realtime)
	}
	if c.current() != ModeRealtime {
		t.Errorf("current() = %q, want %q", c.current(), ModeRealtime)
	}
}

func TestModeControllerNilHooks(t *testing.T) {
	c := newModeController(modeHooks{})

	// Must not panic with no hooks wired.
	c.set(ModeRealtime)
	c.set(ModePolling)
	c.set(ModePaused)

	if c.current() != ModePaused {
		t.Errorf("current() = %q, want %q", c.current(), ModePaused)
	}
}
