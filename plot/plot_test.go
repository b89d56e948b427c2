// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package plot

import (
	"strings"
	"testing"
	"time"

	"github.com/gogpu/gg"

	"github.com/gogpu/timeplot/data"
	"github.com/gogpu/timeplot/geometry"
	"github.com/gogpu/timeplot/overlay"
)

type frame struct{ w, h int }

func (f frame) Padding() (float64, float64) { return 0, 0 }
func (f frame) ClientSize() (int, int) { return f.w, f.h }

type testHost struct {
	dc      *gg.Context
	w, h    int
	overlay *overlay.Manager
	windows overlay.WindowManager
}

func newTestHost(w, h int) *testHost {
	return &testHost{
		dc:      gg.NewContext(w, h),
		w:       w,
		h:       h,
		overlay: overlay.NewManager("test", frame{w, h}),
	}
}

func (h *testHost) Canvas() *gg.Context { return h.dc }
func (h *testHost) CanvasSize() (int, int) { return h.w, h.h }
func (h *testHost) Paint() {}
func (h *testHost) RemoveDiv(n *overlay.Node) { h.overlay.Remove(n) }

func (h *testHost) PutDiv(id, classes string, st overlay.Styles) *overlay.Node {
	return h.overlay.Place(id, classes, st)
}

func (h *testHost) PutText(id, text, classes string, st overlay.Styles) *overlay.Node {
	return h.overlay.PlaceText(id, text, classes, st)
}

func (h *testHost) Popup(id, text string, st overlay.Styles) *overlay.Node {
	return h.windows.Open(h.overlay, id, text, st)
}

var t0 = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// newSeries returns a plot over values at hourly steps from t0, bound to a
// 100x100 host with geometries fitted to the data.
func newSeries(t *testing.T, values []float64, opts ...InfoOption) (*Plot, *testHost) {
	t.Helper()

	es := data.NewEventSource()
	events := make([]data.Event, len(values))
	for i, v := range values {
		events[i] = data.Event{Start: t0.Add(time.Duration(i) * time.Hour), Values: []float64{v}}
	}
	es.AddMany(events)
	ds := data.NewColumnSource(es, 1)

	info := NewInfo(append([]InfoOption{WithID("p"), WithDataSource(ds)}, opts...)...)
	host := newTestHost(100, 100)
	info.TimeGeometry.Initialize(host)
	info.ValueGeometry.Initialize(host)
	r, ok := ds.Range()
	if !ok {
		t.Fatal("source has no range")
	}
	info.TimeGeometry.SetRange(r)
	info.ValueGeometry.SetRange(r)

	p := New(info)
	p.Initialize(host)
	return p, host
}

func TestNewInfoDefaults(t *testing.T) {
	a, b := NewInfo(), NewInfo()

	if !strings.HasPrefix(a.ID, "p-") || a.ID == b.ID {
		t.Errorf("IDs %q and %q, want distinct generated ids", a.ID, b.ID)
	}
	if a.LineColor == nil || *a.LineColor != gg.Hex("#606060") {
		t.Errorf("LineColor = %v, want #606060", a.LineColor)
	}
	if a.FillColor != nil || a.DotColor != nil {
		t.Error("fill and dot colors set by default")
	}
	if a.LineWidth != 1 || a.DotRadius != 2 || a.EventLineWidth != 1 {
		t.Errorf("sizes = %v %v %v", a.LineWidth, a.DotRadius, a.EventLineWidth)
	}
	if a.ShowValues || !a.RoundValues || a.ValuesOpacity != 75 {
		t.Errorf("value flags = %v %v %v", a.ShowValues, a.RoundValues, a.ValuesOpacity)
	}
	if a.BubbleWidth != 300 || a.BubbleHeight != 200 || a.TimeZone != 0 {
		t.Errorf("bubble %dx%d zone %d", a.BubbleWidth, a.BubbleHeight, a.TimeZone)
	}
	if a.TimeGeometry == nil || a.ValueGeometry == nil {
		t.Fatal("default geometries missing")
	}
	if a.TimeGeometry.ID() == b.TimeGeometry.ID() {
		t.Error("default time geometries are shared")
	}
}

func TestNewInfoOptions(t *testing.T) {
	tg := geometry.NewTimeGeometry()
	i := NewInfo(
		WithLineColor(""),
		WithFillColor("#ff0000"),
		WithDotRadius(4),
		WithBubbleSize(100, 50),
		WithTimeGeometry(tg),
		WithShowValues(true),
	)

	if i.LineColor != nil {
		t.Error("empty line color not disabled")
	}
	if i.FillColor == nil || i.FillColor.R != 1 {
		t.Errorf("FillColor = %v", i.FillColor)
	}
	if i.DotRadius != 4 || i.BubbleWidth != 100 || i.BubbleHeight != 50 || !i.ShowValues {
		t.Errorf("options not applied: %+v", i)
	}
	if i.TimeGeometry != tg {
		t.Error("time geometry replaced")
	}
}

func TestNewFillsMissingGeometries(t *testing.T) {
	p := New(Info{ID: "bare"})
	if p.TimeGeometry() == nil || p.ValueGeometry() == nil {
		t.Fatal("New left geometries nil")
	}
	if p.ID() != "bare" {
		t.Errorf("ID = %q", p.ID())
	}
}

func TestNewAssignsMissingIdentity(t *testing.T) {
	a, b := New(Info{}), New(Info{})
	if a.ID() == "" || b.ID() == "" {
		t.Fatalf("IDs = %q, %q", a.ID(), b.ID())
	}
	if a.ID() == b.ID() {
		t.Errorf("literal infos share ID %q", a.ID())
	}
	if a.TimeGeometry().ID() == b.TimeGeometry().ID() || a.ValueGeometry().ID() == b.ValueGeometry().ID() {
		t.Error("default geometries share an ID")
	}
	if id := NewInfo(WithID("")).ID; id == "" {
		t.Error("WithID(\"\") cleared the identity")
	}
	if id := geometry.NewTimeGeometry(geometry.WithTimeID("")).ID(); id == "" {
		t.Error("WithTimeID(\"\") cleared the identity")
	}
	if id := geometry.NewValueGeometry(geometry.WithValueID("")).ID(); id == "" {
		t.Error("WithValueID(\"\") cleared the identity")
	}
}

func TestPaintDrawsSeries(t *testing.T) {
	p, host := newSeries(t, []float64{0, 10}, WithLineWidth(3))

	if err := p.Paint(); err != nil {
		t.Fatalf("Paint: %v", err)
	}
	if _, _, _, a := host.dc.Image().At(50, 50).RGBA(); a == 0 {
		t.Error("line not drawn through the middle of the canvas")
	}
}

func TestPaintSkipsUnboundAndDisposed(t *testing.T) {
	p, host := newSeries(t, []float64{0, 10}, WithLineWidth(3))

	unbound := New(p.Info())
	if err := unbound.Paint(); err != nil {
		t.Fatalf("Paint before Initialize: %v", err)
	}

	p.Dispose()
	if err := p.Paint(); err != nil {
		t.Fatalf("Paint after Dispose: %v", err)
	}
	if _, _, _, a := host.dc.Image().At(50, 50).RGBA(); a != 0 {
		t.Error("disposed plot painted")
	}
}

func TestValueAt(t *testing.T) {
	p, _ := newSeries(t, []float64{1, 2, 3})

	// Two hours span 100 pixels.
	tests := []struct {
		x    float64
		want float64
	}{
		{0, 1},
		{20, 1},
		{30, 2},
		{60, 2},
		{80, 3},
		{500, 3},
		{-50, 1},
	}
	for _, tt := range tests {
		pt, ok := p.ValueAt(tt.x)
		if !ok || pt.Value != tt.want {
			t.Errorf("ValueAt(%v) = %v %v, want %v", tt.x, pt, ok, tt.want)
		}
	}

	if _, ok := New(NewInfo()).ValueAt(0); ok {
		t.Error("ValueAt without data source reported a value")
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		round bool
		v     float64
		want  string
	}{
		{true, 5.4, "5"},
		{true, 1234.5, "1,235"},
		{false, 5.4, "5.40"},
	}
	for _, tt := range tests {
		p := New(NewInfo(WithRoundValues(tt.round)))
		if got := p.FormatValue(tt.v); got != tt.want {
			t.Errorf("FormatValue(%v) round=%v = %q, want %q", tt.v, tt.round, got, tt.want)
		}
	}
}

func TestShowValues(t *testing.T) {
	off, _ := newSeries(t, []float64{5.4, 7})
	if off.ShowValues(0) {
		t.Error("ShowValues shown without the option")
	}

	p, host := newSeries(t, []float64{5.4, 7}, WithShowValues(true))
	if !p.ShowValues(10) {
		t.Fatal("ShowValues = false")
	}
	n, ok := host.overlay.Lookup("p-valueflag")
	if !ok {
		t.Fatal("value flag not placed")
	}
	if n.Text() != "5" {
		t.Errorf("flag text = %q, want 5", n.Text())
	}
	if got := n.Styles()["opacity"]; got != 0.75 {
		t.Errorf("opacity = %v, want 0.75", got)
	}
	if _, ok := host.overlay.Lookup("p-timeflag"); !ok {
		t.Error("time flag not placed")
	}

	p.HideValues()
	if host.overlay.Len() != 0 {
		t.Errorf("%d overlays left after HideValues", host.overlay.Len())
	}
}

func TestEventsAndBubble(t *testing.T) {
	es := data.NewEventSource()
	p, host := newSeries(t, []float64{1, 2, 3}, WithEventSource(es))
	es.AddMany([]data.Event{
		{Start: t0.Add(time.Hour), Instant: true, Title: "deploy"},
		{Start: t0.Add(90 * time.Minute), End: t0.Add(2 * time.Hour), Title: "outage", Color: "#ff0000"},
	})

	if err := p.Paint(); err != nil {
		t.Fatalf("Paint: %v", err)
	}

	events := p.EventsAt(50)
	if len(events) != 1 || events[0].Title != "deploy" {
		t.Errorf("EventsAt(50) = %v, want the deploy event", events)
	}

	if !p.ShowEvents(50, 20) {
		t.Fatal("ShowEvents = false")
	}
	bubble := host.windows.Current()
	if bubble == nil || !strings.Contains(bubble.Text(), "deploy") {
		t.Fatalf("bubble = %v", bubble)
	}
	if w := bubble.Styles()["width"]; w != 300.0 {
		t.Errorf("bubble width = %v, want 300", w)
	}

	if p.ShowEvents(10, 0) {
		t.Error("ShowEvents found events where none are")
	}
}
