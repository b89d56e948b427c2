// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package overlay

import "sync"

// Message is a message bubble, hidden until shown.
type Message struct {
	m *Manager
	n *Node
}

// NewMessage places a hidden message bubble under identity.
// Without position styles the bubble is centered in the container.
func (m *Manager) NewMessage(identity, text string, classes string, styles Styles) *Message {
	n := m.place(KindMessage, identity, ClassMessageContainer+" "+classes, styles, &text)
	m.SetHidden(n, true)
	return &Message{m: m, n: n}
}

// Show displays the bubble.
func (msg *Message) Show() {
	msg.m.SetHidden(msg.n, false)
}

// Hide hides the bubble.
func (msg *Message) Hide() {
	msg.m.SetHidden(msg.n, true)
}

// SetText replaces the displayed text.
func (msg *Message) SetText(text string) {
	msg.m.SetText(msg.n, text)
}

// Visible reports whether the bubble is displayed.
func (msg *Message) Visible() bool {
	return msg.n.Visible()
}

// Node returns the bubble's node.
func (msg *Message) Node() *Node {
	return msg.n
}

// WindowManager keeps at most one popup open across the managers that
// share it.
type WindowManager struct {
	mu    sync.Mutex
	owner *Manager
	popup *Node
}

// Open places a popup bubble on m, closing the previously open popup.
func (w *WindowManager) Open(m *Manager, identity, text string, styles Styles) *Node {
	w.Close()

	n := m.PlaceText(identity, text, ClassBubble, styles)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.owner, w.popup = m, n
	return n
}

// Close removes the open popup, if any.
func (w *WindowManager) Close() {
	w.mu.Lock()
	owner, popup := w.owner, w.popup
	w.owner, w.popup = nil, nil
	w.mu.Unlock()

	if popup != nil {
		owner.Remove(popup)
	}
}

// Current returns the open popup, or nil.
func (w *WindowManager) Current() *Node {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.popup
}
