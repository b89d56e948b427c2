// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package plot draws one series of a timeplot: a numeric series as an
// area, a line and dots, and events as lines or bands.
package plot

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gogpu/gg"
	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/timeplot/data"
	"github.com/gogpu/timeplot/geometry"
	"github.com/gogpu/timeplot/overlay"
)

// Host is the part of a timeplot a plot draws on.
type Host interface {
	geometry.Host

	// Popup opens an event bubble, closing any other open bubble.
	Popup(identity, text string, styles overlay.Styles) *overlay.Node
}

// Plot draws the series of an Info.
//
// Plot is safe for concurrent use.
type Plot struct {
	info    Info
	printer *message.Printer

	mu       sync.Mutex
	host     Host
	flags    []*overlay.Node
	disposed bool
}

// New returns a plot for info. A missing identity or missing geometries
// are replaced by defaults.
func New(info Info) *Plot {
	if info.ID == "" {
		info.ID = "p-" + uuid.NewString()
	}
	if info.TimeGeometry == nil || info.ValueGeometry == nil {
		d := NewInfo(WithTimeZone(info.TimeZone))
		if info.TimeGeometry == nil {
			info.TimeGeometry = d.TimeGeometry
		}
		if info.ValueGeometry == nil {
			info.ValueGeometry = d.ValueGeometry
		}
	}
	return &Plot{
		info:    info,
		printer: message.NewPrinter(language.English),
	}
}

// ID returns the plot identity.
func (p *Plot) ID() string {
	return p.info.ID
}

// Info returns the plot description.
func (p *Plot) Info() Info {
	return p.info
}

// DataSource returns the numeric series, or nil.
func (p *Plot) DataSource() data.Source {
	return p.info.DataSource
}

// EventSource returns the events, or nil.
func (p *Plot) EventSource() *data.EventSource {
	return p.info.EventSource
}

// TimeGeometry returns the plot's time geometry.
func (p *Plot) TimeGeometry() geometry.TimeGeometry {
	return p.info.TimeGeometry
}

// ValueGeometry returns the plot's value geometry.
func (p *Plot) ValueGeometry() geometry.ValueGeometry {
	return p.info.ValueGeometry
}

// Initialize binds the plot to its host.
func (p *Plot) Initialize(h Host) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.host = h
	p.disposed = false
}

func (p *Plot) bound() (Host, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.host, p.host != nil && !p.disposed
}

// Paint draws the events, then the series. It does nothing before
// Initialize, after Dispose and when painting is disabled.
func (p *Plot) Paint() error {
	h, ok := p.bound()
	if !ok {
		return nil
	}
	dc := h.Canvas()
	if dc == nil {
		return nil
	}

	var errs []error
	if p.info.EventSource != nil {
		errs = append(errs, p.paintEvents(dc, h))
	}
	if p.info.DataSource != nil {
		errs = append(errs, p.paintSeries(dc))
	}
	return errors.Join(errs...)
}

func (p *Plot) paintSeries(dc *gg.Context) error {
	points := p.info.DataSource.Values()
	if len(points) == 0 {
		return nil
	}
	tg, vg := p.info.TimeGeometry, p.info.ValueGeometry

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, pt := range points {
		xs[i], ys[i] = tg.ToScreen(pt.Time), vg.ToScreen(pt.Value)
	}

	if c := p.info.FillColor; c != nil {
		dc.SetRGBA(c.R, c.G, c.B, c.A)
		dc.MoveTo(xs[0], 0)
		for i := range xs {
			dc.LineTo(xs[i], ys[i])
		}
		dc.LineTo(xs[len(xs)-1], 0)
		dc.ClosePath()
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("plot %s: fill: %w", p.info.ID, err)
		}
	}

	if c := p.info.LineColor; c != nil && p.info.LineWidth > 0 {
		dc.SetRGBA(c.R, c.G, c.B, c.A)
		dc.SetLineWidth(p.info.LineWidth)
		dc.MoveTo(xs[0], ys[0])
		for i := 1; i < len(xs); i++ {
			dc.LineTo(xs[i], ys[i])
		}
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("plot %s: line: %w", p.info.ID, err)
		}
	}

	if c := p.info.DotColor; c != nil && p.info.DotRadius > 0 {
		dc.SetRGBA(c.R, c.G, c.B, c.A)
		for i := range xs {
			dc.DrawCircle(xs[i], ys[i], p.info.DotRadius)
		}
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("plot %s: dots: %w", p.info.ID, err)
		}
	}
	return nil
}

// paintEvents draws instant events as vertical lines and duration events
// as bands.
func (p *Plot) paintEvents(dc *gg.Context, h geometry.Host) error {
	_, height := h.CanvasSize()
	tg := p.info.TimeGeometry

	for _, e := range p.info.EventSource.Events() {
		c := p.eventColor(e)
		if c == nil {
			continue
		}
		x0 := tg.ToScreen(e.Start)
		if e.Instant || !e.End.After(e.Start) {
			if p.info.EventLineWidth <= 0 {
				continue
			}
			dc.SetRGBA(c.R, c.G, c.B, c.A)
			dc.SetLineWidth(p.info.EventLineWidth)
			dc.DrawLine(x0, 0, x0, float64(height))
			if err := dc.Stroke(); err != nil {
				return fmt.Errorf("plot %s: event line: %w", p.info.ID, err)
			}
			continue
		}
		x1 := tg.ToScreen(e.End)
		dc.SetRGBA(c.R, c.G, c.B, c.A*0.5)
		dc.DrawRectangle(x0, 0, math.Max(1, x1-x0), float64(height))
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("plot %s: event band: %w", p.info.ID, err)
		}
	}
	return nil
}

func (p *Plot) eventColor(e data.Event) *gg.RGBA {
	if e.Color != "" {
		c := gg.Hex(e.Color)
		return &c
	}
	if p.info.LineColor != nil {
		return p.info.LineColor
	}
	return p.info.FillColor
}

// ValueAt returns the point of the series nearest to the horizontal
// position x.
func (p *Plot) ValueAt(x float64) (data.Point, bool) {
	if p.info.DataSource == nil {
		return data.Point{}, false
	}
	points := p.info.DataSource.Values()
	if len(points) == 0 {
		return data.Point{}, false
	}

	t := p.info.TimeGeometry.FromScreen(x)
	i := sort.Search(len(points), func(i int) bool { return !points[i].Time.Before(t) })
	switch {
	case i == len(points):
		i--
	case i > 0 && t.Sub(points[i-1].Time) < points[i].Time.Sub(t):
		i--
	}
	return points[i], true
}

// FormatValue prints v as shown in value flags.
func (p *Plot) FormatValue(v float64) string {
	if p.info.RoundValues {
		return p.printer.Sprintf("%.0f", math.Round(v))
	}
	return p.printer.Sprintf("%.2f", v)
}

// ShowValues places a flag with the value nearest to x. It reports
// whether a flag is shown; plots without ShowValues never show one.
func (p *Plot) ShowValues(x float64) bool {
	if !p.info.ShowValues {
		return false
	}
	h, ok := p.bound()
	if !ok {
		return false
	}
	pt, ok := p.ValueAt(x)
	if !ok {
		p.HideValues()
		return false
	}

	px := p.info.TimeGeometry.ToScreen(pt.Time)
	py := p.info.ValueGeometry.ToScreen(pt.Value)
	opacity := float64(p.info.ValuesOpacity) / 100

	value := h.PutText(p.info.ID+"-valueflag", p.FormatValue(pt.Value), overlay.ClassValueFlag, overlay.Styles{
		"left":    px,
		"bottom":  py,
		"opacity": opacity,
		"display": "block",
	})
	when := h.PutText(p.info.ID+"-timeflag", pt.Time.Format(time.DateTime), overlay.ClassValueFlag, overlay.Styles{
		"left":    px,
		"top":     0.0,
		"opacity": opacity,
		"display": "block",
	})

	p.mu.Lock()
	p.flags = []*overlay.Node{value, when}
	p.mu.Unlock()
	return true
}

// HideValues removes the value flags.
func (p *Plot) HideValues() {
	p.mu.Lock()
	flags, h := p.flags, p.host
	p.flags = nil
	p.mu.Unlock()

	for _, n := range flags {
		h.RemoveDiv(n)
	}
}

// EventsAt returns the events under the horizontal position x, within two
// pixels.
func (p *Plot) EventsAt(x float64) []data.Event {
	if p.info.EventSource == nil {
		return nil
	}
	tg := p.info.TimeGeometry
	return p.info.EventSource.Between(tg.FromScreen(x-2), tg.FromScreen(x+2))
}

// ShowEvents opens a bubble listing the events under x, anchored at
// (x, y). It reports whether any event was found.
func (p *Plot) ShowEvents(x, y float64) bool {
	h, ok := p.bound()
	if !ok {
		return false
	}
	events := p.EventsAt(x)
	if len(events) == 0 {
		return false
	}

	var b strings.Builder
	for i, e := range events {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(e.Start.Format(time.DateOnly))
		if e.Title != "" {
			b.WriteString(" ")
			b.WriteString(e.Title)
		}
	}
	h.Popup(p.info.ID+"-bubble", b.String(), overlay.Styles{
		"left":   x,
		"bottom": y,
		"width":  float64(p.info.BubbleWidth),
		"height": float64(p.info.BubbleHeight),
	})
	return true
}

// Dispose removes the plot's overlays. A disposed plot no longer paints.
func (p *Plot) Dispose() {
	p.HideValues()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.disposed = true
}
