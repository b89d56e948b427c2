// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package plot

import (
	"github.com/gogpu/gg"
	"github.com/google/uuid"

	"github.com/gogpu/timeplot/data"
	"github.com/gogpu/timeplot/geometry"
)

// Default style values.
const (
	DefaultLineWidth      = 1.0
	DefaultDotRadius      = 2.0
	DefaultEventLineWidth = 1.0
	DefaultValuesOpacity  = 75
	DefaultBubbleWidth    = 300
	DefaultBubbleHeight   = 200
)

// DefaultLineColor is the line color of a plot without one.
var DefaultLineColor = gg.Hex("#606060")

// Info describes one plot of a timeplot. Nil colors are not drawn.
type Info struct {
	ID string

	// DataSource provides the numeric series, EventSource the events.
	// Either may be nil.
	DataSource  data.Source
	EventSource *data.EventSource

	TimeGeometry  geometry.TimeGeometry
	ValueGeometry geometry.ValueGeometry

	// TimeZone is the offset in hours from UTC of the default time
	// geometry.
	TimeZone int

	FillColor      *gg.RGBA
	LineColor      *gg.RGBA
	LineWidth      float64
	DotColor       *gg.RGBA
	DotRadius      float64
	EventLineWidth float64

	// ShowValues enables value flags on hover.
	ShowValues bool

	// RoundValues rounds flagged values to integers.
	RoundValues bool

	// ValuesOpacity is the opacity of value flags in percent.
	ValuesOpacity int

	BubbleWidth  int
	BubbleHeight int
}

// InfoOption configures an Info.
type InfoOption func(*Info)

// WithID sets the plot identity. An empty id keeps the random default.
func WithID(id string) InfoOption {
	return func(i *Info) {
		if id != "" {
			i.ID = id
		}
	}
}

// WithDataSource sets the numeric series.
func WithDataSource(s data.Source) InfoOption {
	return func(i *Info) {
		i.DataSource = s
	}
}

// WithEventSource sets the events.
func WithEventSource(es *data.EventSource) InfoOption {
	return func(i *Info) {
		i.EventSource = es
	}
}

// WithTimeGeometry sets the time geometry, which may be shared with other
// plots.
func WithTimeGeometry(g geometry.TimeGeometry) InfoOption {
	return func(i *Info) {
		i.TimeGeometry = g
	}
}

// WithValueGeometry sets the value geometry, which may be shared with
// other plots.
func WithValueGeometry(g geometry.ValueGeometry) InfoOption {
	return func(i *Info) {
		i.ValueGeometry = g
	}
}

// WithTimeZone sets the offset in hours from UTC of the default time
// geometry.
func WithTimeZone(hours int) InfoOption {
	return func(i *Info) {
		i.TimeZone = hours
	}
}

// WithFillColor fills the area below the series.
func WithFillColor(hex string) InfoOption {
	return func(i *Info) {
		i.FillColor = color(hex)
	}
}

// WithLineColor sets the series and event line color. An empty string
// disables lines.
func WithLineColor(hex string) InfoOption {
	return func(i *Info) {
		i.LineColor = color(hex)
	}
}

// WithDotColor draws a dot at each value.
func WithDotColor(hex string) InfoOption {
	return func(i *Info) {
		i.DotColor = color(hex)
	}
}

// WithLineWidth sets the series line width.
func WithLineWidth(w float64) InfoOption {
	return func(i *Info) {
		i.LineWidth = w
	}
}

// WithDotRadius sets the dot radius.
func WithDotRadius(r float64) InfoOption {
	return func(i *Info) {
		i.DotRadius = r
	}
}

// WithEventLineWidth sets the width of instant event lines.
func WithEventLineWidth(w float64) InfoOption {
	return func(i *Info) {
		i.EventLineWidth = w
	}
}

// WithShowValues enables value flags on hover.
func WithShowValues(show bool) InfoOption {
	return func(i *Info) {
		i.ShowValues = show
	}
}

// WithRoundValues rounds flagged values to integers.
func WithRoundValues(round bool) InfoOption {
	return func(i *Info) {
		i.RoundValues = round
	}
}

// WithValuesOpacity sets the value flag opacity in percent.
func WithValuesOpacity(percent int) InfoOption {
	return func(i *Info) {
		i.ValuesOpacity = percent
	}
}

// WithBubbleSize sets the size of event bubbles.
func WithBubbleSize(w, h int) InfoOption {
	return func(i *Info) {
		i.BubbleWidth, i.BubbleHeight = w, h
	}
}

func color(hex string) *gg.RGBA {
	if hex == "" {
		return nil
	}
	c := gg.Hex(hex)
	return &c
}

// NewInfo returns an Info with the default styles, a generated ID and
// default geometries where none are given.
func NewInfo(opts ...InfoOption) Info {
	lc := DefaultLineColor
	i := Info{
		ID:             "p-" + uuid.NewString(),
		LineColor:      &lc,
		LineWidth:      DefaultLineWidth,
		DotRadius:      DefaultDotRadius,
		EventLineWidth: DefaultEventLineWidth,
		RoundValues:    true,
		ValuesOpacity:  DefaultValuesOpacity,
		BubbleWidth:    DefaultBubbleWidth,
		BubbleHeight:   DefaultBubbleHeight,
	}
	for _, opt := range opts {
		opt(&i)
	}
	if i.TimeGeometry == nil {
		i.TimeGeometry = geometry.NewTimeGeometry(geometry.WithTimeZone(i.TimeZone))
	}
	if i.ValueGeometry == nil {
		i.ValueGeometry = geometry.NewValueGeometry()
	}
	return i
}
