package service

import (
	"testing"
	"time"
)

func TestClockRunsOnlyWhenStarted(t *testing.T) {
	c := NewClock(time.Second)
	if got := c.TimeLeft(); got != time.Second {
		t.Fatalf("idle clock shows %v", got)
	}

	c.Start()
	time.Sleep(20 * time.Millisecond)
	c.Stop()
	left := c.TimeLeft()
	if left >= time.Second || left <= 0 {
		t.Fatalf("after running: %v", left)
	}
	time.Sleep(10 * time.Millisecond)
	if got := c.TimeLeft(); got != left {
		t.Fatalf("stopped clock moved from %v to %v", left, got)
	}
	if c.IsRunning() {
		t.Fatalf("clock still running")
	}
}

func TestClockNeverNegative(t *testing.T) {
	c := NewClock(5 * time.Millisecond)
	c.Start()
	time.Sleep(20 * time.Millisecond)
	if got := c.TimeLeft(); got != 0 {
		t.Fatalf("expired clock shows %v", got)
	}
	c.Stop()
	if got := c.TimeLeft(); got != 0 {
		t.Fatalf("stopped expired clock shows %v", got)
	}
}
