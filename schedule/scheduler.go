// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package schedule coalesces bursts of paint requests into single deferred
// paint passes.
//
// A Scheduler holds at most one pending token. Requests made while the token
// is pending are dropped, so N requests issued within the delay produce one
// call of the fire function, which sees whatever state exists when it runs.
package schedule

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultDelay is the coalescing window between the first request and the
// paint it triggers.
const DefaultDelay = 20 * time.Millisecond

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithDelay sets the coalescing window. It is a tuning knob, not a timing
// contract.
func WithDelay(d time.Duration) Option {
	return func(s *Scheduler) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithClock replaces the clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets the logger for scheduling diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// Scheduler defers and coalesces calls to a fire function.
// Scheduler is safe for concurrent use.
type Scheduler struct {
	mu      sync.Mutex
	fire    func()
	clock   Clock
	delay   time.Duration
	logger  *slog.Logger
	pending Timer
	seq     uint64
	closed  bool
}

// New creates a scheduler that calls fire on each tick.
func New(fire func(), opts ...Option) *Scheduler {
	s := &Scheduler{
		fire:   fire,
		clock:  RealClock,
		delay:  DefaultDelay,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Request schedules a tick unless one is already pending. It reports
// whether a new tick was scheduled.
func (s *Scheduler) Request() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.pending != nil {
		return false
	}
	s.seq++
	seq := s.seq
	s.pending = s.clock.AfterFunc(s.delay, func() { s.tick(seq) })
	s.logger.Debug("schedule: tick requested", "delay", s.delay)
	return true
}

// Pending reports whether a tick is scheduled and has not fired yet.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Delay returns the coalescing window.
func (s *Scheduler) Delay() time.Duration {
	return s.delay
}

// Close cancels a pending tick; later requests are ignored.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

// tick clears the token before firing so that requests made while
// painting schedule the next pass.
func (s *Scheduler) tick(seq uint64) {
	s.mu.Lock()
	if s.closed || s.seq != seq || s.pending == nil {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	s.mu.Unlock()

	s.fire()
}
