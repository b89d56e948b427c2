// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package data

import (
	"math"
	"time"
)

// Range is the extent of a series in time and value.
type Range struct {
	EarliestDate time.Time
	LatestDate   time.Time
	Min          float64
	Max          float64
}

// emptyRange is the identity of Range.Extend.
func emptyRange() Range {
	return Range{Min: math.Inf(1), Max: math.Inf(-1)}
}

// Extend grows r to include the point p. NaN values only extend the dates.
func (r Range) Extend(p Point) Range {
	if r.EarliestDate.IsZero() || p.Time.Before(r.EarliestDate) {
		r.EarliestDate = p.Time
	}
	if r.LatestDate.IsZero() || p.Time.After(r.LatestDate) {
		r.LatestDate = p.Time
	}
	if !math.IsNaN(p.Value) {
		r.Min = math.Min(r.Min, p.Value)
		r.Max = math.Max(r.Max, p.Value)
	}
	return r
}

// Duration returns the time span of the range.
func (r Range) Duration() time.Duration {
	return r.LatestDate.Sub(r.EarliestDate)
}

// HasValues reports whether the range covers at least one value.
func (r Range) HasValues() bool {
	return !math.IsInf(r.Min, 0) && !math.IsInf(r.Max, 0)
}

// Point is a single value of a series.
type Point struct {
	Time  time.Time
	Value float64
}

// Listener is notified when a source changes.
type Listener interface {
	// OnAddMany is called after a batch of events was appended.
	OnAddMany()

	// OnClear is called after all events were removed.
	OnClear()
}

// ListenerFuncs adapts a pair of functions to the Listener interface.
// Nil functions are skipped.
type ListenerFuncs struct {
	AddMany func()
	Clear   func()
}

// OnAddMany implements Listener.
func (l *ListenerFuncs) OnAddMany() {
	if l.AddMany != nil {
		l.AddMany()
	}
}

// OnClear implements Listener.
func (l *ListenerFuncs) OnClear() {
	if l.Clear != nil {
		l.Clear()
	}
}

// Source is a numeric time series a plot draws.
type Source interface {
	// Range returns the overall range, or false when the source holds no
	// values.
	Range() (Range, bool)

	// Values returns the series in time order.
	Values() []Point

	AddListener(l Listener)
	RemoveListener(l Listener)
}
