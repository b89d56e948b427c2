// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package data holds the data collaborators a timeplot reads from.
//
// An EventSource stores timestamped events, either rows of numeric values
// loaded from delimited text or discrete events loaded from Timeline XML.
// A Source exposes one numeric series of an event source together with its
// overall Range. Both notify registered Listeners after bulk appends and
// clears; the timeplot reacts by pushing the new range into its geometries
// and repainting.
//
// Loading is all-or-nothing: a parse error leaves the event source
// unchanged.
package data
