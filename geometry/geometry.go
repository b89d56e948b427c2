// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package geometry maps data ranges to pixel positions on a timeplot
// surface and paints the matching grids and axis labels.
//
// A geometry is told its range through SetRange, recomputes its pixel
// scale from the surface in Reset, and draws itself in Paint. Geometries
// may be shared by several plots of the same timeplot; they are then
// reset and painted once per pass.
package geometry

import (
	"strconv"
	"time"

	"github.com/gogpu/gg"

	"github.com/gogpu/timeplot/data"
	"github.com/gogpu/timeplot/overlay"
)

// Host is the part of a timeplot a geometry draws on.
type Host interface {
	// Canvas returns the drawing context with the origin at the bottom
	// left of the drawable area and the y axis pointing up, or nil when
	// painting is disabled.
	Canvas() *gg.Context

	// CanvasSize returns the size of the drawable area.
	CanvasSize() (w, h int)

	// PutText places a text overlay at a position relative to the
	// drawable area.
	PutText(identity, text, classes string, styles overlay.Styles) *overlay.Node

	// PutDiv places a box overlay at a position relative to the drawable
	// area.
	PutDiv(identity, classes string, styles overlay.Styles) *overlay.Node

	// RemoveDiv detaches an overlay.
	RemoveDiv(n *overlay.Node)

	// Paint requests a redraw.
	Paint()
}

// Geometry is the contract shared by time and value geometries.
type Geometry interface {
	// ID returns the identity the geometry is registered under.
	ID() string

	// Initialize binds the geometry to its host and resets it.
	Initialize(h Host)

	// SetRange sets the data range. Ranges without values leave the
	// current range unchanged.
	SetRange(r data.Range)

	// Reset recomputes the pixel scale from the host's canvas size.
	Reset()

	// Paint draws the grid and places the axis labels.
	Paint() error
}

// TimeGeometry maps time to horizontal pixel positions.
type TimeGeometry interface {
	Geometry
	ToScreen(t time.Time) float64
	FromScreen(x float64) time.Time
}

// ValueGeometry maps values to vertical pixel positions.
type ValueGeometry interface {
	Geometry
	ToScreen(v float64) float64
	FromScreen(y float64) float64
}

// Placement selects where axis labels are drawn.
type Placement string

// Label placements. Value geometries use Left and Right, time geometries
// use Top and Bottom.
const (
	LabelsNone   Placement = "none"
	LabelsLeft   Placement = "left"
	LabelsRight  Placement = "right"
	LabelsTop    Placement = "top"
	LabelsBottom Placement = "bottom"
)

// labels tracks the overlay nodes an axis placed during its last paint.
type labels struct {
	prefix string
	nodes  []*overlay.Node
}

// place puts texts at the given styles and removes nodes left over from a
// previous paint with more labels.
func (l *labels) place(h Host, texts []string, styles []overlay.Styles) {
	old := l.nodes
	l.nodes = make([]*overlay.Node, len(texts))
	for i, s := range texts {
		l.nodes[i] = h.PutText(l.prefix+"-"+strconv.Itoa(i), s, overlay.ClassGridLabel, styles[i])
	}
	for _, n := range old[min(len(old), len(texts)):] {
		h.RemoveDiv(n)
	}
}
