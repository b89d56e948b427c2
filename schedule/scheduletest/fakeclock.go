// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package scheduletest provides a controllable Clock for tests.
package scheduletest

import (
	"sort"
	"sync"
	"time"

	"github.com/gogpu/timeplot/schedule"
)

// FakeClock is a Clock whose timers fire only when Advance is called.
//
// Timers fire synchronously on the goroutine calling Advance, in deadline
// order, which lets tests observe a paint tick without sleeping.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

// Prove we implement the Clock interface.
var _ schedule.Clock = &FakeClock{}

// NewFakeClock returns a clock starting at an arbitrary fixed instant.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

type fakeTimer struct {
	clock    *FakeClock
	deadline time.Time
	f        func()
	done     bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.done {
		return false
	}
	t.done = true
	return true
}

// AfterFunc implements schedule.Clock.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) schedule.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &fakeTimer{clock: c, deadline: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

// Now returns the fake current time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Pending returns the number of timers that have neither fired nor been
// stopped.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, t := range c.timers {
		if !t.done {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d and fires every timer whose
// deadline has passed, including timers created by the fired functions.
// It returns the number of timers fired.
func (c *FakeClock) Advance(d time.Duration) int {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()

	fired := 0
	for {
		t := c.nextDue()
		if t == nil {
			return fired
		}
		t.f()
		fired++
	}
}

// nextDue marks the earliest due timer as done and returns it.
func (c *FakeClock) nextDue() *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()

	live := c.timers[:0]
	for _, t := range c.timers {
		if !t.done {
			live = append(live, t)
		}
	}
	c.timers = live

	sort.SliceStable(c.timers, func(i, j int) bool {
		return c.timers[i].deadline.Before(c.timers[j].deadline)
	})
	for _, t := range c.timers {
		if !t.deadline.After(c.now) {
			t.done = true
			return t
		}
	}
	return nil
}
