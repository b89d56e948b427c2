// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package overlay places labels, grid markers and message bubbles on top of
// a timeplot's drawing surface.
//
// Overlay nodes live beside the drawing surface rather than on it, so a
// surface clear never erases them. Nodes are identified by a stable
// identity scoped to one Manager; placing an identity again updates the
// existing node instead of creating a new one.
//
// Position styles are given relative to the drawable interior. Place adds
// the surface padding to "left" and "right" (horizontal) and to "top" and
// "bottom" (vertical) before storing them, and Locate subtracts it again:
//
//	n := m.Place("grid-3", "timeplot-grid", overlay.Styles{"left": 40.0, "top": 0.0})
//	p := m.Locate(n) // p.X == 40
package overlay
