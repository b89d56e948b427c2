// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package overlay

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/gogpu/gg"
)

// ErrIdentityCollision is the panic value, wrapped, raised when an identity
// is placed again as a node of a different kind.
var ErrIdentityCollision = errors.New("overlay: identity collision")

// Frame describes the surface the overlays are aligned to.
type Frame interface {
	// Padding returns the offset between the container's client box and
	// the drawable area on each side.
	Padding() (x, y float64)

	// ClientSize returns the container size including padding.
	ClientSize() (w, h int)
}

// Option configures a Manager.
type Option func(*Manager)

// WithStylesheet replaces the default stylesheet.
func WithStylesheet(s Stylesheet) Option {
	return func(m *Manager) {
		m.sheet = s
	}
}

// WithLogger sets the logger for render failures.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// Manager holds the overlay nodes of one surface.
//
// Manager is safe for concurrent use.
type Manager struct {
	mu     sync.RWMutex
	prefix string
	frame  Frame
	nodes  map[string]*Node
	order  []string
	sheet  Stylesheet
	fonts  faces
	logger *slog.Logger
}

// NewManager returns a manager whose node identities are scoped by prefix.
func NewManager(prefix string, frame Frame, opts ...Option) *Manager {
	m := &Manager{
		prefix: prefix,
		frame:  frame,
		nodes:  make(map[string]*Node),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.sheet == nil {
		m.sheet = DefaultStylesheet()
	}
	return m
}

// Prefix returns the identity scope of the manager.
func (m *Manager) Prefix() string {
	return m.prefix
}

// Place creates or updates the box node with the given identity.
func (m *Manager) Place(identity, classes string, styles Styles) *Node {
	return m.place(KindDiv, identity, classes, styles, nil)
}

// PlaceText creates or updates the text node with the given identity and
// sets its displayed text.
func (m *Manager) PlaceText(identity, text, classes string, styles Styles) *Node {
	return m.place(KindText, identity, classes, styles, &text)
}

func (m *Manager) place(kind Kind, identity, classes string, styles Styles, text *string) *Node {
	id := m.scope(identity)
	px, py := m.frame.Padding()

	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.nodes[id]
	if !ok {
		n = &Node{id: id, kind: kind, styles: make(Styles), owner: m}
		m.nodes[id] = n
		m.order = append(m.order, id)
	} else if n.kind != kind {
		panic(fmt.Errorf("%w: %q is a %s node, placed as %s", ErrIdentityCollision, id, n.kind, kind))
	}

	n.class = joinClasses(ClassDiv, classes)
	if text != nil {
		n.text = *text
	}
	applyStyles(n.styles, styles, px, py)
	return n
}

func (m *Manager) scope(identity string) string {
	if m.prefix == "" {
		return identity
	}
	return m.prefix + "-" + identity
}

// applyStyles copies src into dst, offsetting numeric positions by the
// padding so they align with the drawable interior.
func applyStyles(dst, src Styles, px, py float64) {
	for k, v := range src {
		var off float64
		switch k {
		case "left", "right":
			off = px
		case "top", "bottom":
			off = py
		default:
			dst[k] = v
			continue
		}
		if f, ok := number(v); ok {
			dst[k] = f + off
		} else {
			dst[k] = v
		}
	}
}

func joinClasses(base, classes string) string {
	fields := strings.Fields(classes)
	if slices.Contains(fields, base) {
		return strings.Join(fields, " ")
	}
	return strings.Join(append([]string{base}, fields...), " ")
}

// Apply merges styles into n, offsetting positions like Place.
func (m *Manager) Apply(n *Node, styles Styles) {
	px, py := m.frame.Padding()

	m.mu.Lock()
	defer m.mu.Unlock()
	applyStyles(n.styles, styles, px, py)
}

// Remove detaches n. It reports whether n was attached to m.
func (m *Manager) Remove(n *Node) bool {
	if n == nil {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.nodes[n.id] != n {
		return false
	}
	delete(m.nodes, n.id)
	m.order = slices.DeleteFunc(m.order, func(id string) bool { return id == n.id })
	return true
}

// Lookup returns the node placed under identity.
func (m *Manager) Lookup(identity string) (*Node, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.nodes[m.scope(identity)]
	return n, ok
}

// Nodes returns the attached nodes in creation order.
func (m *Manager) Nodes() []*Node {
	m.mu.RLock()
	defer m.mu.RUnlock()

	nodes := make([]*Node, 0, len(m.order))
	for _, id := range m.order {
		nodes = append(nodes, m.nodes[id])
	}
	return nodes
}

// Len returns the number of attached nodes.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order)
}

// Clear detaches every node.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	clear(m.nodes)
	m.order = m.order[:0]
}

// SetHidden shows or hides n through its "display" style.
func (m *Manager) SetHidden(n *Node, hidden bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hidden {
		n.styles["display"] = "none"
	} else {
		delete(n.styles, "display")
	}
}

// SetText replaces the displayed text of n.
func (m *Manager) SetText(n *Node, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n.text = text
}

// Locate returns the position of n relative to the drawable area, the
// inverse of the padding offset applied by Place.
func (m *Manager) Locate(n *Node) Point {
	px, py := m.frame.Padding()
	cw, ch := m.frame.ClientSize()

	m.mu.RLock()
	defer m.mu.RUnlock()

	r := m.layout(n, float64(cw), float64(ch))
	return Point{X: r.x - px, Y: r.y - py}
}

type rect struct {
	x, y, w, h float64
}

// layout computes the box of n in container coordinates.
// It must be called with the lock held.
func (m *Manager) layout(n *Node, cw, ch float64) rect {
	st := m.sheet.Compute(n.class, n.styles)
	pad, _ := st.Number("padding")
	size, ok := st.Number("font-size")
	if !ok {
		size = DefaultFontSize
	}

	var r rect
	tw, th := 0.0, 0.0
	if n.text != "" {
		tw, th = m.fonts.measure(n.text, size)
	}
	if r.w, ok = st.Number("width"); !ok {
		r.w = tw + 2*pad
	}
	if r.h, ok = st.Number("height"); !ok {
		r.h = th + 2*pad
	}

	centered := n.kind == KindMessage
	r.x = offset(st, "left", "right", cw, r.w, centered)
	r.y = offset(st, "top", "bottom", ch, r.h, centered)
	return r
}

// offset resolves a position from its near or far style.
func offset(st Styles, near, far string, outer, size float64, centered bool) float64 {
	if v, ok := st.Number(near); ok {
		return v
	}
	if v, ok := st.Number(far); ok {
		return outer - v - size
	}
	if centered {
		return (outer - size) / 2
	}
	return 0
}

// Render draws the visible nodes onto dc in container coordinates, in
// creation order. Nodes whose colors cannot be drawn are logged and
// skipped.
func (m *Manager) Render(dc *gg.Context) error {
	cw, ch := m.frame.ClientSize()

	m.mu.RLock()
	defer m.mu.RUnlock()

	dc.Push()
	defer dc.Pop()
	dc.Identity()

	var errs []error
	for _, id := range m.order {
		n := m.nodes[id]
		if !n.visible() {
			continue
		}
		if err := m.render(dc, n, float64(cw), float64(ch)); err != nil {
			m.logger.Warn("overlay: render node", "id", id, "err", err)
			errs = append(errs, fmt.Errorf("overlay: render %q: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) render(dc *gg.Context, n *Node, cw, ch float64) error {
	st := m.sheet.Compute(n.class, n.styles)
	r := m.layout(n, cw, ch)

	opacity, ok := st.Number("opacity")
	if !ok {
		opacity = 1
	}

	if c, ok := st.String("background-color"); ok && r.w > 0 && r.h > 0 {
		setColor(dc, c, opacity)
		dc.DrawRectangle(r.x, r.y, r.w, r.h)
		if err := dc.Fill(); err != nil {
			return err
		}
	}
	if c, ok := st.String("border-color"); ok && r.w > 0 && r.h > 0 {
		setColor(dc, c, opacity)
		dc.SetLineWidth(1)
		dc.DrawRectangle(r.x+0.5, r.y+0.5, r.w-1, r.h-1)
		if err := dc.Stroke(); err != nil {
			return err
		}
	}

	if n.text == "" {
		return nil
	}
	size, ok := st.Number("font-size")
	if !ok {
		size = DefaultFontSize
	}
	face, err := m.fonts.face(size)
	if err != nil {
		return err
	}
	pad, _ := st.Number("padding")
	c, ok := st.String("color")
	if !ok {
		c = "#000000"
	}
	setColor(dc, c, opacity)
	dc.SetFont(face)
	dc.DrawString(n.text, r.x+pad, r.y+pad+face.Metrics().Ascent)
	return nil
}

func setColor(dc *gg.Context, hex string, opacity float64) {
	c := gg.Hex(hex)
	dc.SetRGBA(c.R, c.G, c.B, c.A*opacity)
}
