package ratelimit

import (
	"testing"
	"time"
)

// testLimiter returns a limiter with a controllable clock.
func testLimiter(t *testing.T, cooldown time.Duration) (*Limiter, *time.Time) {
	t.Helper()
	l := New(cooldown)
	current := time.Now()
	l.now = func() time.Time { return current }
	return l, &current
}

func TestTryAcceptFirstRequest(t *testing.T) {
	l, _ := testLimiter(t, 5*time.Second)

	ok, wait := l.TryAccept("user-1")
	if !ok || wait != 0 {
		t.Errorf("first request must be accepted, got ok=%v wait=%v", ok, wait)
	}
}

func TestTryAcceptWithinCooldown(t *testing.T) {
	l, clock := testLimiter(t, 5*time.Second)

	l.TryAccept("user-1")
	*clock = clock.Add(2 * time.Second)

	ok, wait := l.TryAccept("user-1")
	if ok {
		t.Fatal("second request within cooldown must be rejected")
	}
	if wait != 3*time.Second {
		t.Errorf("wait = %v, want exactly 3s remaining", wait)
	}
	if wait <= 0 || wait > 5*time.Second {
		t.Errorf("wait out of bounds: %v", wait)
	}
}

func TestRejectionDoesNotExtendWait(t *testing.T) {
	l, clock := testLimiter(t, 5*time.Second)

	l.TryAccept("user-1")

	// Hammer while cooling down; each rejection must report the remaining
	// time from the accepted request, not from the latest attempt.
	*clock = clock.Add(1 * time.Second)
	l.TryAccept("user-1")
	*clock = clock.Add(1 * time.Second)
	if _, wait := l.TryAccept("user-1"); wait != 3*time.Second {
		t.Errorf("wait = %v, want 3s", wait)
	}

	*clock = clock.Add(3 * time.Second)
	if ok, _ := l.TryAccept("user-1"); !ok {
		t.Error("request after cooldown elapsed must be accepted")
	}
}

func TestUsersAreIndependent(t *testing.T) {
	l, _ := testLimiter(t, 5*time.Second)

	l.TryAccept("user-1")
	if ok, _ := l.TryAccept("user-2"); !ok {
		t.Error("a different user must not share the cooldown")
	}
}

func TestPurge(t *testing.T) {
	l, clock := testLimiter(t, 5*time.Second)

	l.TryAccept("old-user")
	*clock = clock.Add(10 * time.Minute)
	l.TryAccept("fresh-user")

	l.Purge(time.Minute)

	if l.Len() != 1 {
		t.Fatalf("expected 1 record after purge, got %d", l.Len())
	}
	if ok, _ := l.TryAccept("fresh-user"); ok {
		t.Error("fresh record must survive the purge")
	}
}
