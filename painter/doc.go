// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package painter keeps the ordered layers of paint actions a timeplot runs
// on every paint tick.
//
// An Entry pairs an Owner, identified by a stable ID, with a zero-argument
// Action, typically a method value bound to that owner:
//
//	r := painter.NewRegistry()
//	r.Add(painter.Background, painter.Entry{Owner: geom, Action: geom.Paint})
//	r.Add(painter.Foreground, painter.Entry{Owner: plot, Action: plot.Paint})
//	r.Run(painter.Background)
//	r.Run(painter.Foreground)
//
// Each layer holds at most one entry per owner ID; adding the same owner
// twice is a no-op. Entries run in insertion order. A failing or panicking
// action is reported to the registry's ErrorHandler and the remaining
// entries still run.
package painter
