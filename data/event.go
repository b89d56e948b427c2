// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package data

import (
	"slices"
	"sort"
	"sync"
	"time"
)

// Event is a timestamped entry of an EventSource.
type Event struct {
	Start time.Time
	End   time.Time

	// Instant events have no duration; End equals Start.
	Instant bool

	Title       string
	Description string
	Link        string
	Color       string

	// Values holds the numeric columns of a row loaded from text.
	Values []float64
}

// Overlaps reports whether the event intersects [from, to].
func (e Event) Overlaps(from, to time.Time) bool {
	return !e.Start.After(to) && !e.End.Before(from)
}

// EventSource holds events ordered by start time.
// EventSource is safe for concurrent use. Listeners are notified outside
// the source's lock and may read from it.
type EventSource struct {
	mu        sync.RWMutex
	events    []Event
	listeners listeners
}

// NewEventSource returns an empty event source.
func NewEventSource() *EventSource {
	return &EventSource{}
}

// AddMany inserts events keeping start-time order, then notifies
// listeners. An empty batch is ignored.
func (s *EventSource) AddMany(events []Event) {
	if len(events) == 0 {
		return
	}

	s.mu.Lock()
	for _, e := range events {
		if e.End.IsZero() || e.End.Before(e.Start) {
			e.End = e.Start
		}
		i := sort.Search(len(s.events), func(i int) bool {
			return s.events[i].Start.After(e.Start)
		})
		s.events = slices.Insert(s.events, i, e)
	}
	s.mu.Unlock()

	s.listeners.each(Listener.OnAddMany)
}

// Clear removes all events and notifies listeners.
func (s *EventSource) Clear() {
	s.mu.Lock()
	s.events = nil
	s.mu.Unlock()

	s.listeners.each(Listener.OnClear)
}

// Len returns the number of events.
func (s *EventSource) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// Events returns a copy of all events in start order.
func (s *EventSource) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.events)
}

// Between returns the events overlapping [from, to] in start order.
func (s *EventSource) Between(from, to time.Time) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Event
	for _, e := range s.events {
		if e.Start.After(to) {
			break
		}
		if e.Overlaps(from, to) {
			out = append(out, e)
		}
	}
	return out
}

// AddListener registers l. Adding the same listener twice is a no-op.
func (s *EventSource) AddListener(l Listener) {
	s.listeners.add(l)
}

// RemoveListener unregisters l.
func (s *EventSource) RemoveListener(l Listener) {
	s.listeners.remove(l)
}

// listeners is a set of listeners in registration order.
type listeners struct {
	mu   sync.Mutex
	list []Listener
}

func (ls *listeners) add(l Listener) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if !slices.Contains(ls.list, l) {
		ls.list = append(ls.list, l)
	}
}

func (ls *listeners) remove(l Listener) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if i := slices.Index(ls.list, l); i >= 0 {
		ls.list = slices.Delete(ls.list, i, i+1)
	}
}

func (ls *listeners) len() int {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return len(ls.list)
}

func (ls *listeners) each(fn func(Listener)) {
	ls.mu.Lock()
	list := slices.Clone(ls.list)
	ls.mu.Unlock()

	for _, l := range list {
		fn(l)
	}
}
