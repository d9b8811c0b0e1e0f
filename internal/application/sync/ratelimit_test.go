package sync

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestRateLimiterSpacing(t *testing.T) {
	clock := clockwork.NewFakeClock()
	r := newRateLimiter(clock, 500*time.Millisecond)

	if !r.allow() {
		t.Fatal("first send should always pass")
	}
	if r.allow() {
		t.Fatal("immediate second send should be dropped")
	}

	clock.Advance(499 * time.Millisecond)
	if r.allow() {
		t.Fatal("send inside the interval should be dropped")
	}

	clock.Advance(1 * time.Millisecond)
	if !r.allow() {
		t.Fatal("send at exactly the interval should pass")
	}
}

func TestRateLimiterDropsAreNotQueued(t *testing.T) {
	clock := clockwork.NewFakeClock()
	r := newRateLimiter(clock, time.Second)

	if !r.allow() {
		t.Fatal("first send should pass")
	}

	// A rejected attempt must not push the window forward.
	clock.Advance(900 * time.Millisecond)
	if r.allow() {
		t.Fatal("send inside the interval should be dropped")
	}
	clock.Advance(100 * time.Millisecond)
	if !r.allow() {
		t.Fatal("the window is measured from the last accepted send, not the last attempt")
	}
}
