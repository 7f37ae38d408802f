package main

import (
	"testing"
	"time"

	"chunkview/internal/config"
)

// fakeClock advances only when the limiter sleeps or spins.
type fakeClock struct {
	t     time.Time
	slept time.Duration
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(time.Microsecond)
	return c.t
}

func (c *fakeClock) sleep(d time.Duration) {
	c.slept += d
	c.t = c.t.Add(d)
}

func newTestLimiter(c *fakeClock) *FPSLimiter {
	return &FPSLimiter{now: c.now, sleep: c.sleep}
}

func TestLimiterPacesFrames(t *testing.T) {
	old := config.GetFPSLimit()
	t.Cleanup(func() { config.SetFPSLimit(old) })
	config.SetFPSLimit(100)

	c := &fakeClock{t: time.Unix(0, 0)}
	f := newTestLimiter(c)
	start := c.t
	for i := 0; i < 10; i++ {
		f.Wait(false)
	}
	elapsed := c.t.Sub(start)
	if elapsed < 100*time.Millisecond || elapsed > 101*time.Millisecond {
		t.Fatalf("10 frames at 100 FPS: took %v, want about 100ms", elapsed)
	}
}

func TestLimiterUncapped(t *testing.T) {
	old := config.GetFPSLimit()
	t.Cleanup(func() { config.SetFPSLimit(old) })
	config.SetFPSLimit(0)

	c := &fakeClock{t: time.Unix(0, 0)}
	f := newTestLimiter(c)
	f.Wait(false)
	if c.slept != 0 {
		t.Fatalf("uncapped: slept %v, want 0", c.slept)
	}

	// Pausing caps even an uncapped viewer.
	f.Wait(true)
	if c.slept == 0 {
		t.Fatal("paused: did not sleep")
	}
}

func TestLimiterResyncsAfterHitch(t *testing.T) {
	old := config.GetFPSLimit()
	t.Cleanup(func() { config.SetFPSLimit(old) })
	config.SetFPSLimit(100)

	c := &fakeClock{t: time.Unix(0, 0)}
	f := newTestLimiter(c)
	f.Wait(false)
	c.t = c.t.Add(time.Second)
	f.Wait(false)
	if ahead := f.next.Sub(c.t); ahead <= 0 || ahead > 10*time.Millisecond {
		t.Fatalf("after hitch: next frame %v ahead, want within one frame", ahead)
	}
}
