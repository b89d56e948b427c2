// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package geometry

import (
	"math"
	"time"
)

// maxTicks bounds the ticks of one axis whatever the range.
const maxTicks = 1000

// valueTicks returns the multiples of a 1, 2 or 5 step that lie in
// [lo, hi], the step chosen so that about n ticks fit, and the number of
// decimals needed to print them.
func valueTicks(lo, hi float64, n int) ([]float64, int) {
	if n < 1 || !(hi > lo) || math.IsInf(hi-lo, 0) {
		return nil, 0
	}

	raw := (hi - lo) / float64(n)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	step := 10 * mag
	for _, m := range []float64{1, 2, 5} {
		if m*mag >= raw {
			step = m * mag
			break
		}
	}
	prec := max(0, -int(math.Floor(math.Log10(step)+1e-9)))

	first := math.Ceil(lo/step - 1e-9)
	last := math.Floor(hi/step + 1e-9)
	var ticks []float64
	for k := first; k <= last && len(ticks) < maxTicks; k++ {
		ticks = append(ticks, k*step)
	}
	return ticks, prec
}

// timeUnit is a tick interval of a time axis.
type timeUnit struct {
	d      time.Duration
	months int
	layout string
}

var timeUnits = []timeUnit{
	{d: time.Minute, layout: "15:04"},
	{d: 5 * time.Minute, layout: "15:04"},
	{d: 15 * time.Minute, layout: "15:04"},
	{d: time.Hour, layout: "15:04"},
	{d: 6 * time.Hour, layout: "Jan 2 15:04"},
	{d: 24 * time.Hour, layout: "Jan 2"},
	{d: 7 * 24 * time.Hour, layout: "Jan 2"},
	{months: 1, layout: "Jan 2006"},
	{months: 3, layout: "Jan 2006"},
	{months: 12, layout: "2006"},
	{months: 120, layout: "2006"},
}

func (u timeUnit) approx() time.Duration {
	if u.months > 0 {
		return time.Duration(u.months) * 730 * time.Hour
	}
	return u.d
}

// floor returns the last unit boundary at or before t in t's location.
func (u timeUnit) floor(t time.Time) time.Time {
	loc := t.Location()
	switch {
	case u.months >= 12:
		years := u.months / 12
		return time.Date(t.Year()-t.Year()%years, time.January, 1, 0, 0, 0, 0, loc)
	case u.months > 0:
		m := (int(t.Month()) - 1) / u.months * u.months
		return time.Date(t.Year(), time.Month(m+1), 1, 0, 0, 0, 0, loc)
	default:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		if u.d >= 24*time.Hour {
			return day
		}
		return day.Add(t.Sub(day) / u.d * u.d)
	}
}

func (u timeUnit) next(t time.Time) time.Time {
	if u.months > 0 {
		return t.AddDate(0, u.months, 0)
	}
	return t.Add(u.d)
}

// pickUnit returns the finest unit giving at most n ticks over span.
func pickUnit(span time.Duration, n int) timeUnit {
	for _, u := range timeUnits {
		if span/u.approx() <= time.Duration(n) {
			return u
		}
	}
	return timeUnits[len(timeUnits)-1]
}

// timeTicks returns the unit boundaries within [from, to].
func timeTicks(from, to time.Time, n int) ([]time.Time, timeUnit) {
	if n < 1 || !to.After(from) {
		return nil, timeUnit{}
	}
	u := pickUnit(to.Sub(from), n)

	t := u.floor(from)
	if t.Before(from) {
		t = u.next(t)
	}
	var ticks []time.Time
	for ; !t.After(to) && len(ticks) < maxTicks; t = u.next(t) {
		ticks = append(ticks, t)
	}
	return ticks, u
}
