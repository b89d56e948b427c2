// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package geometry

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gogpu/gg"
	"github.com/google/uuid"

	"github.com/gogpu/timeplot/data"
	"github.com/gogpu/timeplot/overlay"
)

// Prove we implement the TimeGeometry interface.
var _ TimeGeometry = (*DefaultTimeGeometry)(nil)

// TimeOption configures a DefaultTimeGeometry.
type TimeOption func(*DefaultTimeGeometry)

// WithTimeID sets the geometry identity. By default, or when id is empty, a
// random one is used.
func WithTimeID(id string) TimeOption {
	return func(g *DefaultTimeGeometry) {
		if id != "" {
			g.id = id
		}
	}
}

// WithTimeZone sets the offset in hours from UTC used for ticks and labels.
func WithTimeZone(hours int) TimeOption {
	return func(g *DefaultTimeGeometry) {
		g.zone = time.FixedZone(fmt.Sprintf("UTC%+d", hours), hours*3600)
	}
}

// WithPeriod fixes the time axis regardless of the data range.
func WithPeriod(from, to time.Time) TimeOption {
	return func(g *DefaultTimeGeometry) {
		g.fixed = true
		g.from, g.to = from, to
	}
}

// WithTimeGrid draws vertical grid lines in the given hex color.
func WithTimeGrid(color string) TimeOption {
	return func(g *DefaultTimeGeometry) {
		g.gridColor = color
	}
}

// WithTimeLabels sets where time labels are placed, LabelsTop,
// LabelsBottom or LabelsNone.
func WithTimeLabels(p Placement) TimeOption {
	return func(g *DefaultTimeGeometry) {
		g.placement = p
	}
}

// DefaultTimeGeometry is a linear time axis.
type DefaultTimeGeometry struct {
	mu        sync.RWMutex
	id        string
	host      Host
	zone      *time.Location
	fixed     bool
	gridColor string
	placement Placement

	from, to time.Time
	width    float64
	height   float64
	labels   labels
}

// NewTimeGeometry returns a time axis spanning the last day until a range
// is set.
func NewTimeGeometry(opts ...TimeOption) *DefaultTimeGeometry {
	now := time.Now().Truncate(time.Hour)
	g := &DefaultTimeGeometry{
		id:        "tg-" + uuid.NewString(),
		zone:      time.UTC,
		placement: LabelsBottom,
		from:      now.Add(-24 * time.Hour),
		to:        now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if !g.to.After(g.from) {
		g.to = g.from.Add(time.Hour)
	}
	g.labels.prefix = g.id
	return g
}

// ID implements Geometry.
func (g *DefaultTimeGeometry) ID() string {
	return g.id
}

// Initialize implements Geometry.
func (g *DefaultTimeGeometry) Initialize(h Host) {
	g.mu.Lock()
	g.host = h
	g.mu.Unlock()
	g.Reset()
}

// SetRange implements Geometry. A range of a single instant is widened by
// an hour on each side.
func (g *DefaultTimeGeometry) SetRange(r data.Range) {
	if r.EarliestDate.IsZero() || r.LatestDate.IsZero() {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.fixed {
		return
	}
	g.from, g.to = r.EarliestDate, r.LatestDate
	if !g.to.After(g.from) {
		g.from, g.to = g.from.Add(-time.Hour), g.to.Add(time.Hour)
	}
}

// Period returns the current axis bounds.
func (g *DefaultTimeGeometry) Period() (from, to time.Time) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.from, g.to
}

// Location returns the time zone of ticks and labels.
func (g *DefaultTimeGeometry) Location() *time.Location {
	return g.zone
}

// Reset implements Geometry.
func (g *DefaultTimeGeometry) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.host == nil {
		return
	}
	w, h := g.host.CanvasSize()
	g.width, g.height = float64(w), float64(h)
}

// ToScreen implements TimeGeometry.
func (g *DefaultTimeGeometry) ToScreen(t time.Time) float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return float64(t.Sub(g.from)) * g.width / float64(g.to.Sub(g.from))
}

// FromScreen implements TimeGeometry.
func (g *DefaultTimeGeometry) FromScreen(x float64) time.Time {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.width == 0 {
		return g.from
	}
	d := time.Duration(math.Round(x * float64(g.to.Sub(g.from)) / g.width))
	return g.from.Add(d)
}

// Paint implements Geometry.
func (g *DefaultTimeGeometry) Paint() error {
	g.mu.RLock()
	host, from, to, w, h := g.host, g.from.In(g.zone), g.to.In(g.zone), g.width, g.height
	grid, placement := g.gridColor, g.placement
	g.mu.RUnlock()

	if host == nil || w <= 0 {
		return nil
	}

	ticks, unit := timeTicks(from, to, max(1, int(w/80)))
	scale := w / float64(to.Sub(from))

	if dc := host.Canvas(); dc != nil && grid != "" {
		c := gg.Hex(grid)
		dc.SetRGBA(c.R, c.G, c.B, c.A)
		dc.SetLineWidth(0.5)
		for _, t := range ticks {
			x := math.Round(float64(t.Sub(from))*scale) + 0.5
			dc.DrawLine(x, 0, x, h)
		}
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("geometry: time grid: %w", err)
		}
	}

	var texts []string
	var styles []overlay.Styles
	if placement == LabelsTop || placement == LabelsBottom {
		for _, t := range ticks {
			texts = append(texts, t.Format(unit.layout))
			styles = append(styles, overlay.Styles{
				"left":            float64(t.Sub(from))*scale + 2,
				string(placement): 2.0,
			})
		}
	}

	g.mu.Lock()
	g.labels.place(host, texts, styles)
	g.mu.Unlock()
	return nil
}
