// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package schedule

import "time"

// Clock schedules deferred functions. It exists so that tests can control
// when a paint tick fires without sleeping.
type Clock interface {
	// AfterFunc calls f in its own goroutine once d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending call created by a Clock.
type Timer interface {
	// Stop prevents the call from firing. It reports whether the call was
	// stopped before it fired.
	Stop() bool
}

// RealClock is the Clock backed by the time package.
var RealClock Clock = realClock{}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
