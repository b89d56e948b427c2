// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package painter

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// Layer names a paint-order bucket.
type Layer string

// Layers are drawn background first, then foreground.
const (
	Background Layer = "background"
	Foreground Layer = "foreground"
)

// Layers lists the layers in paint order.
var Layers = []Layer{Background, Foreground}

// Owner is the identity an entry is registered under.
type Owner interface {
	ID() string
}

// Entry is a paint action bound to its owner.
type Entry struct {
	Owner  Owner
	Action func() error
}

// ErrPanic is wrapped by the Error reported for an action that panicked.
var ErrPanic = errors.New("painter: action panicked")

// Error reports the failure of a single entry.
type Error struct {
	Layer Layer
	Owner string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("painter: %s/%s: %v", e.Layer, e.Owner, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorHandler receives entry failures.
type ErrorHandler func(*Error)

// Option configures a Registry.
type Option func(*Registry)

// WithErrorHandler sets the handler for entry failures. By default failures
// are logged at error level.
func WithErrorHandler(h ErrorHandler) Option {
	return func(r *Registry) {
		r.onError = h
	}
}

// WithLogger sets the logger used by the default error handler.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

type layer struct {
	entries map[string]Entry
	order   []string
}

// Registry holds the background and foreground layers.
// Registry is safe for concurrent use; entries may add or remove entries
// while the registry is running them, taking effect on the next run.
type Registry struct {
	mu      sync.RWMutex
	layers  map[Layer]*layer
	onError ErrorHandler
	logger  *slog.Logger
}

// NewRegistry creates a registry with empty background and foreground
// layers.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		layers: make(map[Layer]*layer, len(Layers)),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, l := range Layers {
		r.layers[l] = &layer{entries: make(map[string]Entry)}
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.onError == nil {
		r.onError = r.logError
	}
	return r
}

// Add appends e to the layer unless an entry with the same owner ID is
// already there. It reports whether the entry was added. Unknown layers
// and entries without an owner are ignored.
func (r *Registry) Add(l Layer, e Entry) bool {
	if e.Owner == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	ly, ok := r.layers[l]
	if !ok {
		return false
	}
	id := e.Owner.ID()
	if _, dup := ly.entries[id]; dup {
		return false
	}
	ly.entries[id] = e
	ly.order = append(ly.order, id)
	return true
}

// Remove removes the entry registered under e's owner ID and reports
// whether there was one.
func (r *Registry) Remove(l Layer, e Entry) bool {
	if e.Owner == nil {
		return false
	}
	return r.RemoveOwner(l, e.Owner)
}

// RemoveOwner removes the entry of owner from the layer.
func (r *Registry) RemoveOwner(l Layer, owner Owner) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	ly, ok := r.layers[l]
	if !ok {
		return false
	}
	id := owner.ID()
	if _, found := ly.entries[id]; !found {
		return false
	}
	delete(ly.entries, id)
	if i := slices.Index(ly.order, id); i >= 0 {
		ly.order = slices.Delete(ly.order, i, i+1)
	}
	return true
}

// Len returns the number of entries in the layer.
func (r *Registry) Len(l Layer) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if ly, ok := r.layers[l]; ok {
		return len(ly.order)
	}
	return 0
}

// Entries returns a snapshot of the layer in insertion order.
func (r *Registry) Entries(l Layer) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ly, ok := r.layers[l]
	if !ok {
		return nil
	}
	out := make([]Entry, len(ly.order))
	for i, id := range ly.order {
		out[i] = ly.entries[id]
	}
	return out
}

// ForEach calls fn for every entry of the layer in insertion order and
// returns the number of failures. An error returned by fn, or a panic
// inside it, is reported to the error handler and does not stop the
// remaining entries.
func (r *Registry) ForEach(l Layer, fn func(Entry) error) int {
	failed := 0
	for _, e := range r.Entries(l) {
		if err := call(fn, e); err != nil {
			failed++
			r.onError(&Error{Layer: l, Owner: e.Owner.ID(), Err: err})
		}
	}
	return failed
}

// Run invokes the action of every entry of the layer.
func (r *Registry) Run(l Layer) int {
	return r.ForEach(l, func(e Entry) error {
		if e.Action == nil {
			return nil
		}
		return e.Action()
	})
}

// Clear removes every entry from every layer.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ly := range r.layers {
		clear(ly.entries)
		ly.order = ly.order[:0]
	}
}

func call(fn func(Entry) error, e Entry) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, v)
		}
	}()
	return fn(e)
}

func (r *Registry) logError(e *Error) {
	r.logger.Error("painter: paint action failed",
		"layer", string(e.Layer), "owner", e.Owner, "error", e.Err)
}
