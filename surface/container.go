// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import "sync"

// Container is the host element a surface is embedded in.
type Container interface {
	// ClientSize returns the outer size of the container in pixels,
	// including its padding.
	ClientSize() (width, height int)

	// ContentSize returns the computed content box: the area available
	// for the drawing surface.
	ContentSize() (width, height int)
}

// Insets describes padding on the four sides of a box.
type Insets struct {
	Top, Right, Bottom, Left int
}

// Uniform returns insets of n pixels on every side.
func Uniform(n int) Insets {
	return Insets{Top: n, Right: n, Bottom: n, Left: n}
}

// Box is a resizable Container with a fixed client size and padding.
// Box is safe for concurrent use.
type Box struct {
	mu      sync.RWMutex
	width   int
	height  int
	padding Insets
}

// NewBox creates a box with the given client size and padding.
func NewBox(width, height int, padding Insets) *Box {
	return &Box{width: width, height: height, padding: padding}
}

// SetSize changes the client size of the box. The caller is expected to
// request a full repaint afterwards.
func (b *Box) SetSize(width, height int) {
	b.mu.Lock()
	b.width, b.height = width, height
	b.mu.Unlock()
}

// SetPadding changes the padding of the box.
func (b *Box) SetPadding(p Insets) {
	b.mu.Lock()
	b.padding = p
	b.mu.Unlock()
}

// Padding returns the current padding.
func (b *Box) Padding() Insets {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.padding
}

// ClientSize implements Container.
func (b *Box) ClientSize() (width, height int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.width, b.height
}

// ContentSize implements Container. Padding larger than the box yields zero.
func (b *Box) ContentSize() (width, height int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	width = max(0, b.width-b.padding.Left-b.padding.Right)
	height = max(0, b.height-b.padding.Top-b.padding.Bottom)
	return width, height
}
