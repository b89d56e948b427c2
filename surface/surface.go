// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/gg"
)

// Option configures a Manager.
type Option func(*options)

type options struct {
	provider Provider
}

// WithProvider sets the provider used to create the drawing context.
// By default the best available provider of the global registry is used.
func WithProvider(p Provider) Option {
	return func(o *options) {
		o.provider = p
	}
}

// Manager owns the drawing surface of a container.
//
// Manager is safe for concurrent use, but the *gg.Context returned by
// Context is not: drawing must be serialized by the caller.
type Manager struct {
	mu        sync.RWMutex
	container Container
	dc        *gg.Context
	width     int
	height    int
	paddingX  float64
	paddingY  float64
	closed    bool
}

// New creates a Manager for the container and prepares it once.
// It returns an error wrapping ErrUnsupportedSurface when no drawing
// context can be created.
func New(c Container, opts ...Option) (*Manager, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	p := o.provider
	if p == nil {
		var err error
		if p, err = Best(); err != nil {
			return nil, err
		}
	}

	w, h := contentSize(c)
	dc, err := p.NewContext(w, h)
	if err != nil {
		return nil, fmt.Errorf("surface: create context: %w", err)
	}
	if dc == nil {
		return nil, ErrUnsupportedSurface
	}

	m := &Manager{container: c, dc: dc}
	if err := m.Prepare(); err != nil {
		return nil, err
	}
	return m, nil
}

// contentSize clamps the container's content box to at least one pixel,
// the smallest context gg accepts.
func contentSize(c Container) (int, int) {
	w, h := c.ContentSize()
	return max(1, w), max(1, h)
}

// Prepare re-reads the container geometry, resizes the surface to the
// content box, recomputes the padding and installs the bottom-left,
// y-up transform with plain source-over compositing.
// Prepare never invokes painters.
func (m *Manager) Prepare() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	w, h := contentSize(m.container)
	if err := m.dc.Resize(w, h); err != nil {
		return fmt.Errorf("surface: resize: %w", err)
	}
	m.width, m.height = w, h

	cw, ch := m.container.ClientSize()
	m.paddingX = float64(cw-w) / 2
	m.paddingY = float64(ch-h) / 2

	m.dc.Identity()
	m.dc.Translate(0, float64(h))
	m.dc.Scale(1, -1)
	m.dc.SetBlendMode(gg.BlendNormal)
	return nil
}

// Clear erases the drawable area. The transform and padding are kept.
func (m *Manager) Clear() {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return
	}
	m.dc.Clear()
}

// Padding returns the offset between the container's client box and the
// drawable area on each side.
func (m *Manager) Padding() (x, y float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.paddingX, m.paddingY
}

// Size returns the drawable size in pixels.
func (m *Manager) Size() (width, height int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.width, m.height
}

// Container returns the host container.
func (m *Manager) Container() Container {
	return m.container
}

// Context returns the drawing context, or nil once closed.
func (m *Manager) Context() *gg.Context {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil
	}
	return m.dc
}

// Image returns the current pixels of the drawable area.
func (m *Manager) Image() image.Image {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil
	}
	return m.dc.Image()
}

// Close releases the drawing context. Close is idempotent.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	return m.dc.Close()
}
