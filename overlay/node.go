// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package overlay

import (
	"maps"
	"strconv"
	"strings"
)

// Kind distinguishes the node types a Manager creates.
type Kind int

const (
	// KindDiv is a plain box, used for grid lines and markers.
	KindDiv Kind = iota

	// KindText is a box with text content.
	KindText

	// KindMessage is a message bubble centered in the container unless
	// positioned explicitly.
	KindMessage
)

func (k Kind) String() string {
	switch k {
	case KindDiv:
		return "div"
	case KindText:
		return "text"
	case KindMessage:
		return "message"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Styles maps style names to values. Position and size styles ("left",
// "right", "top", "bottom", "width", "height", "font-size", "opacity")
// take numbers in pixels; other styles take strings, such as colors in
// hex notation or "none" for "display".
type Styles map[string]any

// Number returns the numeric value of the style key.
func (s Styles) Number(key string) (float64, bool) {
	return number(s[key])
}

// String returns the string value of the style key.
func (s Styles) String(key string) (string, bool) {
	v, ok := s[key].(string)
	return v, ok
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(n), "px"), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Point is a position in pixels.
type Point struct {
	X, Y float64
}

// Node is an overlay element.
type Node struct {
	id     string
	kind   Kind
	class  string
	text   string
	styles Styles
	owner  *Manager
}

// ID returns the node's identity, scoped by its manager prefix.
func (n *Node) ID() string {
	return n.id
}

// Kind returns the node type.
func (n *Node) Kind() Kind {
	return n.kind
}

// Class returns the space-separated class list.
func (n *Node) Class() string {
	if m := n.owner; m != nil {
		m.mu.RLock()
		defer m.mu.RUnlock()
	}
	return n.class
}

// Text returns the displayed text.
func (n *Node) Text() string {
	if m := n.owner; m != nil {
		m.mu.RLock()
		defer m.mu.RUnlock()
	}
	return n.text
}

// Styles returns a copy of the node's inline styles.
func (n *Node) Styles() Styles {
	if m := n.owner; m != nil {
		m.mu.RLock()
		defer m.mu.RUnlock()
	}
	return maps.Clone(n.styles)
}

// Attached reports whether the node belongs to a manager.
func (n *Node) Attached() bool {
	if m := n.owner; m != nil {
		m.mu.RLock()
		defer m.mu.RUnlock()
		return m.nodes[n.id] == n
	}
	return false
}

// Visible reports whether the node is displayed. A removed node is never
// visible.
func (n *Node) Visible() bool {
	m := n.owner
	if m == nil {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.nodes[n.id] == n && n.visible()
}

func (n *Node) visible() bool {
	d, _ := n.styles.String("display")
	return d != "none"
}

func (n *Node) hasClass(c string) bool {
	for _, f := range strings.Fields(n.class) {
		if f == c {
			return true
		}
	}
	return false
}
