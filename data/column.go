// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package data

import "math"

// ColumnSource exposes one value column of an event source as a Source.
// Columns are numbered from 1, matching the position of the value after
// the date in a text row.
type ColumnSource struct {
	events    *EventSource
	column    int
	listeners listeners
}

// Prove we implement the Source interface.
var _ Source = (*ColumnSource)(nil)

// NewColumnSource returns the source for the given column of es and
// subscribes it to es. Call Close to unsubscribe.
func NewColumnSource(es *EventSource, column int) *ColumnSource {
	c := &ColumnSource{events: es, column: column}
	es.AddListener(c)
	return c
}

// EventSource returns the underlying event source.
func (c *ColumnSource) EventSource() *EventSource {
	return c.events
}

// Column returns the 1-based column index.
func (c *ColumnSource) Column() int {
	return c.column
}

// Values returns the non-NaN values of the column in time order.
func (c *ColumnSource) Values() []Point {
	c.events.mu.RLock()
	defer c.events.mu.RUnlock()

	i := c.column - 1
	points := make([]Point, 0, len(c.events.events))
	for _, e := range c.events.events {
		if i < 0 || i >= len(e.Values) || math.IsNaN(e.Values[i]) {
			continue
		}
		points = append(points, Point{Time: e.Start, Value: e.Values[i]})
	}
	return points
}

// Range implements Source.
func (c *ColumnSource) Range() (Range, bool) {
	points := c.Values()
	if len(points) == 0 {
		return Range{}, false
	}
	r := emptyRange()
	for _, p := range points {
		r = r.Extend(p)
	}
	return r, true
}

// AddListener implements Source.
func (c *ColumnSource) AddListener(l Listener) {
	c.listeners.add(l)
}

// RemoveListener implements Source.
func (c *ColumnSource) RemoveListener(l Listener) {
	c.listeners.remove(l)
}

// Listeners returns the number of registered listeners.
func (c *ColumnSource) Listeners() int {
	return c.listeners.len()
}

// OnAddMany forwards the event source notification.
func (c *ColumnSource) OnAddMany() {
	c.listeners.each(Listener.OnAddMany)
}

// OnClear forwards the event source notification.
func (c *ColumnSource) OnClear() {
	c.listeners.each(Listener.OnClear)
}

// Close unsubscribes the source from its event source.
func (c *ColumnSource) Close() {
	c.events.RemoveListener(c)
}
