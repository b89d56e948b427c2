// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package surface manages the drawing surface a timeplot paints on.
//
// A Manager owns a single gg.Context sized to the content box of a host
// Container. The container's client box may be larger than its content box
// (padding); the difference, halved per side, is reported by Padding so that
// overlays positioned in container coordinates line up with the drawable
// interior.
//
// After Prepare, the drawing transform puts the origin at the bottom-left of
// the drawable area with y increasing upward:
//
//	m, err := surface.New(surface.NewBox(800, 400, surface.Uniform(10)))
//	if err != nil {
//	    // errors.Is(err, surface.ErrUnsupportedSurface): show a fallback
//	}
//	_ = m.Prepare()
//	dc := m.Context()
//	dc.DrawLine(0, 0, 100, 100) // from bottom-left, going up
//
// # Providers
//
// Drawing contexts are created by a Provider. The software provider backed by
// gg's CPU rasterizer is registered by default. Providers are selected by
// priority through a Registry; when none is available the surface is
// unsupported and New returns ErrUnsupportedSurface.
package surface
