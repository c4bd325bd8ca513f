package timeutil

import (
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	clock := RealClock{}
	before := time.Now()
	now := clock.Now()
	after := time.Now()

	if now.Before(before) || now.After(after) {
		t.Errorf("Now() = %v, expected between %v and %v", now, before, after)
	}
}

func TestRealClock_Since(t *testing.T) {
	clock := RealClock{}
	past := time.Now().Add(-time.Second)
	d := clock.Since(past)

	if d < time.Second {
		t.Errorf("Since() returned %v, expected >= 1s", d)
	}
}

func TestMockClock_SetAndAdvance(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	clock := NewMockClock(start)

	if got := clock.Now(); !got.Equal(start) {
		t.Errorf("Now() = %v, want %v", got, start)
	}

	clock.Advance(2 * time.Second)
	if got := clock.Since(start); got != 2*time.Second {
		t.Errorf("Since() = %v, want 2s", got)
	}

	later := start.Add(time.Hour)
	clock.Set(later)
	if got := clock.Now(); !got.Equal(later) {
		t.Errorf("Now() after Set = %v, want %v", got, later)
	}
}

func TestMockClock_AutoAdvance(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	clock := NewMockClock(start)
	clock.SetAutoAdvance(time.Millisecond)

	first := clock.Now()
	second := clock.Now()
	if d := second.Sub(first); d != time.Millisecond {
		t.Errorf("consecutive reads differ by %v, want 1ms", d)
	}
	if clock.Reads() != 2 {
		t.Errorf("Reads() = %d, want 2", clock.Reads())
	}

	// Since does not advance.
	if d := clock.Since(second); d != time.Millisecond {
		t.Errorf("Since() = %v, want 1ms", d)
	}
	if d := clock.Since(second); d != time.Millisecond {
		t.Errorf("Since() second call = %v, want 1ms", d)
	}

	clock.SetAutoAdvance(0)
	a, b := clock.Now(), clock.Now()
	if !a.Equal(b) {
		t.Errorf("auto-advance disabled but reads differ: %v vs %v", a, b)
	}
}
