// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package schedule_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/gogpu/timeplot/schedule"
	"github.com/gogpu/timeplot/schedule/scheduletest"
)

func TestRequestsCoalesce(t *testing.T) {
	tests := []struct {
		name     string
		requests int
	}{
		{"single", 1},
		{"burst", 10},
		{"large burst", 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := scheduletest.NewFakeClock()
			ticks := 0
			s := schedule.New(func() { ticks++ }, schedule.WithClock(clock))

			scheduled := 0
			for i := 0; i < tt.requests; i++ {
				if s.Request() {
					scheduled++
				}
			}
			if scheduled != 1 {
				t.Errorf("Request() scheduled %d times, want 1", scheduled)
			}
			if !s.Pending() {
				t.Error("Pending() = false before the delay elapsed")
			}

			clock.Advance(schedule.DefaultDelay - time.Millisecond)
			if ticks != 0 {
				t.Fatalf("ticked %d times before the delay elapsed", ticks)
			}
			clock.Advance(time.Millisecond)
			if ticks != 1 {
				t.Errorf("ticks = %d, want 1", ticks)
			}
			if s.Pending() {
				t.Error("Pending() = true after the tick")
			}
		})
	}
}

func TestRequestAfterTickSchedulesAgain(t *testing.T) {
	clock := scheduletest.NewFakeClock()
	ticks := 0
	s := schedule.New(func() { ticks++ }, schedule.WithClock(clock), schedule.WithDelay(5*time.Millisecond))

	s.Request()
	clock.Advance(5 * time.Millisecond)
	s.Request()
	s.Request()
	clock.Advance(5 * time.Millisecond)

	if ticks != 2 {
		t.Errorf("ticks = %d, want 2", ticks)
	}
}

func TestRequestDuringTick(t *testing.T) {
	clock := scheduletest.NewFakeClock()
	var s *schedule.Scheduler
	ticks := 0
	s = schedule.New(func() {
		ticks++
		if ticks == 1 {
			// The token is already cleared, so this schedules the next pass.
			if !s.Request() {
				t.Error("Request() inside tick = false")
			}
		}
	}, schedule.WithClock(clock))

	s.Request()
	clock.Advance(schedule.DefaultDelay)
	if ticks != 1 {
		t.Fatalf("ticks = %d, want 1", ticks)
	}
	if !s.Pending() {
		t.Fatal("Pending() after a request inside the tick = false")
	}
	clock.Advance(schedule.DefaultDelay)
	if ticks != 2 {
		t.Errorf("ticks = %d, want 2", ticks)
	}
}

func TestClose(t *testing.T) {
	clock := scheduletest.NewFakeClock()
	ticks := 0
	s := schedule.New(func() { ticks++ }, schedule.WithClock(clock))

	s.Request()
	s.Close()
	if clock.Pending() != 0 {
		t.Errorf("Close() left %d timers pending", clock.Pending())
	}
	if s.Request() {
		t.Error("Request() after Close = true")
	}
	clock.Advance(time.Second)
	if ticks != 0 {
		t.Errorf("ticks = %d after Close, want 0", ticks)
	}
}

func TestRealClock(t *testing.T) {
	var ticks atomic.Int32
	done := make(chan struct{})
	s := schedule.New(func() {
		ticks.Add(1)
		close(done)
	}, schedule.WithDelay(time.Millisecond))

	for i := 0; i < 50; i++ {
		s.Request()
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("tick did not fire")
	}
	if n := ticks.Load(); n != 1 {
		t.Errorf("ticks = %d, want 1", n)
	}
}
