// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package geometry

import (
	"fmt"
	"math"
	"sync"

	"github.com/gogpu/gg"
	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/timeplot/data"
	"github.com/gogpu/timeplot/overlay"
)

// Prove we implement the ValueGeometry interface.
var _ ValueGeometry = (*DefaultValueGeometry)(nil)

// ValueOption configures a DefaultValueGeometry.
type ValueOption func(*DefaultValueGeometry)

// WithValueID sets the geometry identity. By default, or when id is empty, a
// random one is used.
func WithValueID(id string) ValueOption {
	return func(g *DefaultValueGeometry) {
		if id != "" {
			g.id = id
		}
	}
}

// WithMin fixes the bottom of the axis regardless of the data range.
func WithMin(v float64) ValueOption {
	return func(g *DefaultValueGeometry) {
		g.fixedMin = &v
	}
}

// WithMax fixes the top of the axis regardless of the data range.
func WithMax(v float64) ValueOption {
	return func(g *DefaultValueGeometry) {
		g.fixedMax = &v
	}
}

// WithValueGrid draws horizontal grid lines in the given hex color.
func WithValueGrid(color string) ValueOption {
	return func(g *DefaultValueGeometry) {
		g.gridColor = color
	}
}

// WithValueLabels sets where value labels are placed, LabelsLeft,
// LabelsRight or LabelsNone.
func WithValueLabels(p Placement) ValueOption {
	return func(g *DefaultValueGeometry) {
		g.placement = p
	}
}

// WithLanguage sets the language used to format labels.
func WithLanguage(tag language.Tag) ValueOption {
	return func(g *DefaultValueGeometry) {
		g.printer = message.NewPrinter(tag)
	}
}

// DefaultValueGeometry is a linear value axis.
type DefaultValueGeometry struct {
	mu        sync.RWMutex
	id        string
	host      Host
	fixedMin  *float64
	fixedMax  *float64
	gridColor string
	placement Placement
	printer   *message.Printer

	min, max float64
	height   float64
	width    float64
	labels   labels
}

// NewValueGeometry returns a value axis spanning [0, 1] until a range is
// set.
func NewValueGeometry(opts ...ValueOption) *DefaultValueGeometry {
	g := &DefaultValueGeometry{
		id:        "vg-" + uuid.NewString(),
		placement: LabelsLeft,
		min:       0,
		max:       1,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.printer == nil {
		g.printer = message.NewPrinter(language.English)
	}
	if g.fixedMin != nil {
		g.min = *g.fixedMin
	}
	if g.fixedMax != nil {
		g.max = *g.fixedMax
	}
	g.min, g.max = span(g.min, g.max)
	g.labels.prefix = g.id
	return g
}

// ID implements Geometry.
func (g *DefaultValueGeometry) ID() string {
	return g.id
}

// Initialize implements Geometry.
func (g *DefaultValueGeometry) Initialize(h Host) {
	g.mu.Lock()
	g.host = h
	g.mu.Unlock()
	g.Reset()
}

// SetRange implements Geometry.
func (g *DefaultValueGeometry) SetRange(r data.Range) {
	if !r.HasValues() {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	lo, hi := r.Min, r.Max
	if g.fixedMin != nil {
		lo = *g.fixedMin
	}
	if g.fixedMax != nil {
		hi = *g.fixedMax
	}
	g.min, g.max = span(lo, hi)
}

// span widens an empty or inverted interval so it can be scaled.
func span(lo, hi float64) (float64, float64) {
	if hi < lo {
		lo, hi = hi, lo
	}
	if hi == lo {
		return lo - 1, hi + 1
	}
	return lo, hi
}

// Range returns the current axis bounds.
func (g *DefaultValueGeometry) Range() (lo, hi float64) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.min, g.max
}

// Reset implements Geometry.
func (g *DefaultValueGeometry) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.host == nil {
		return
	}
	w, h := g.host.CanvasSize()
	g.width, g.height = float64(w), float64(h)
}

// ToScreen implements ValueGeometry. The result is measured upward from
// the bottom of the drawable area.
func (g *DefaultValueGeometry) ToScreen(v float64) float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return (v - g.min) * g.height / (g.max - g.min)
}

// FromScreen implements ValueGeometry.
func (g *DefaultValueGeometry) FromScreen(y float64) float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.height == 0 {
		return g.min
	}
	return g.min + y*(g.max-g.min)/g.height
}

// Format prints v with prec decimals in the geometry's language.
func (g *DefaultValueGeometry) Format(v float64, prec int) string {
	if v == 0 {
		v = 0 // no negative zero
	}
	return g.printer.Sprintf(fmt.Sprintf("%%.%df", prec), v)
}

// Paint implements Geometry.
func (g *DefaultValueGeometry) Paint() error {
	g.mu.RLock()
	host, lo, hi, w, h := g.host, g.min, g.max, g.width, g.height
	grid, placement := g.gridColor, g.placement
	g.mu.RUnlock()

	if host == nil || h <= 0 {
		return nil
	}

	ticks, prec := valueTicks(lo, hi, max(1, int(h/40)))
	scale := h / (hi - lo)

	if dc := host.Canvas(); dc != nil && grid != "" {
		c := gg.Hex(grid)
		dc.SetRGBA(c.R, c.G, c.B, c.A)
		dc.SetLineWidth(0.5)
		for _, v := range ticks {
			y := math.Round((v-lo)*scale) + 0.5
			dc.DrawLine(0, y, w, y)
		}
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("geometry: value grid: %w", err)
		}
	}

	var texts []string
	var styles []overlay.Styles
	if placement == LabelsLeft || placement == LabelsRight {
		for _, v := range ticks {
			texts = append(texts, g.Format(v, prec))
			styles = append(styles, overlay.Styles{
				string(placement): 2.0,
				"bottom":          (v - lo) * scale,
			})
		}
	}

	g.mu.Lock()
	g.labels.place(host, texts, styles)
	g.mu.Unlock()
	return nil
}
