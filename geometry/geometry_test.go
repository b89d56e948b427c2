// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package geometry

import (
	"math"
	"testing"
	"time"

	"github.com/gogpu/gg"

	"github.com/gogpu/timeplot/data"
	"github.com/gogpu/timeplot/overlay"
)

type frame struct{ w, h int }

func (f frame) Padding() (float64, float64) { return 0, 0 }
func (f frame) ClientSize() (int, int) { return f.w, f.h }

// testHost draws on a real context and records overlay calls.
type testHost struct {
	dc      *gg.Context
	w, h    int
	overlay *overlay.Manager
	removed int
	paints  int
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
func (h *testHost) Paint() { h.paints++ }

func (h *testHost) RemoveDiv(n *overlay.Node) {
	h.removed++
	h.overlay.Remove(n)
}

func (h *testHost) PutDiv(id, classes string, st overlay.Styles) *overlay.Node {
	return h.overlay.Place(id, classes, st)
}

func (h *testHost) PutText(id, text, classes string, st overlay.Styles) *overlay.Node {
	return h.overlay.PlaceText(id, text, classes, st)
}

func TestValueTicks(t *testing.T) {
	tests := []struct {
		lo, hi   float64
		n        int
		want     []float64
		wantPrec int
	}{
		{0, 10, 5, []float64{0, 2, 4, 6, 8, 10}, 0},
		{0, 100, 4, []float64{0, 50, 100}, 0},
		{3, 17, 3, []float64{5, 10, 15}, 0},
		{0, 1, 5, []float64{0, 0.2, 0.4, 0.6, 0.8, 1}, 1},
		{-1, 1, 2, []float64{-1, 0, 1}, 0},
		{5, 5, 3, nil, 0},
		{0, 10, 0, nil, 0},
	}

	for _, tt := range tests {
		got, prec := valueTicks(tt.lo, tt.hi, tt.n)
		if len(got) != len(tt.want) {
			t.Errorf("valueTicks(%v, %v, %d) = %v, want %v", tt.lo, tt.hi, tt.n, got, tt.want)
			continue
		}
		for i := range got {
			if math.Abs(got[i]-tt.want[i]) > 1e-9 {
				t.Errorf("valueTicks(%v, %v, %d)[%d] = %v, want %v", tt.lo, tt.hi, tt.n, i, got[i], tt.want[i])
			}
		}
		if prec != tt.wantPrec {
			t.Errorf("valueTicks(%v, %v, %d) precision = %d, want %d", tt.lo, tt.hi, tt.n, prec, tt.wantPrec)
		}
	}
}

func TestTimeTicks(t *testing.T) {
	day := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		from, to time.Time
		n        int
		want     int
		layout   string
	}{
		{"six hours", day, day.Add(24 * time.Hour), 12, 5, "Jan 2 15:04"},
		{"hours", day.Add(30 * time.Minute), day.Add(5 * time.Hour), 10, 5, "15:04"},
		{"months", time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC), time.Date(2020, 12, 15, 0, 0, 0, 0, time.UTC), 12, 11, "Jan 2006"},
		{"years", time.Date(2001, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2009, 6, 1, 0, 0, 0, 0, time.UTC), 10, 8, "2006"},
		{"empty", day, day, 10, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticks, unit := timeTicks(tt.from, tt.to, tt.n)
			if len(ticks) != tt.want {
				t.Fatalf("got %d ticks %v, want %d", len(ticks), ticks, tt.want)
			}
			if unit.layout != tt.layout {
				t.Errorf("layout = %q, want %q", unit.layout, tt.layout)
			}
			for _, tick := range ticks {
				if tick.Before(tt.from) || tick.After(tt.to) {
					t.Errorf("tick %v outside [%v, %v]", tick, tt.from, tt.to)
				}
			}
		})
	}
}

func TestValueGeometryScale(t *testing.T) {
	host := newTestHost(200, 100)
	g := NewValueGeometry(WithValueID("v"))
	g.Initialize(host)

	g.SetRange(data.Range{Min: 0, Max: 50})
	if got := g.ToScreen(25); got != 50 {
		t.Errorf("ToScreen(25) = %v, want 50", got)
	}
	if got := g.FromScreen(100); got != 50 {
		t.Errorf("FromScreen(100) = %v, want 50", got)
	}

	g.SetRange(data.Range{Min: math.Inf(1), Max: math.Inf(-1)})
	if lo, hi := g.Range(); lo != 0 || hi != 50 {
		t.Errorf("range without values changed bounds to [%v, %v]", lo, hi)
	}

	g.SetRange(data.Range{Min: 7, Max: 7})
	if lo, hi := g.Range(); lo != 6 || hi != 8 {
		t.Errorf("flat range = [%v, %v], want [6, 8]", lo, hi)
	}

	host.h = 200
	g.Reset()
	if got := g.ToScreen(7); got != 100 {
		t.Errorf("after Reset ToScreen(7) = %v, want 100", got)
	}
}

func TestValueGeometryFixedBounds(t *testing.T) {
	g := NewValueGeometry(WithMin(0), WithMax(10))
	g.SetRange(data.Range{Min: 3, Max: 40})

	if lo, hi := g.Range(); lo != 0 || hi != 10 {
		t.Errorf("Range = [%v, %v], want [0, 10]", lo, hi)
	}
}

func TestValueGeometryFormat(t *testing.T) {
	g := NewValueGeometry()

	tests := []struct {
		v    float64
		prec int
		want string
	}{
		{1234.5, 1, "1,234.5"},
		{0.25, 2, "0.25"},
		{math.Copysign(0, -1), 0, "0"},
	}
	for _, tt := range tests {
		if got := g.Format(tt.v, tt.prec); got != tt.want {
			t.Errorf("Format(%v, %d) = %q, want %q", tt.v, tt.prec, got, tt.want)
		}
	}
}

func TestValueGeometryPaintLabels(t *testing.T) {
	host := newTestHost(100, 200)
	g := NewValueGeometry(WithValueID("v"), WithValueGrid("#cccccc"), WithValueLabels(LabelsRight))
	g.Initialize(host)
	g.SetRange(data.Range{Min: 0, Max: 100})

	if err := g.Paint(); err != nil {
		t.Fatalf("Paint: %v", err)
	}
	first := host.overlay.Len()
	if first == 0 {
		t.Fatal("Paint placed no labels")
	}
	n, ok := host.overlay.Lookup("v-0")
	if !ok {
		t.Fatal("label v-0 not placed")
	}
	if n.Text() != "0" {
		t.Errorf("first label = %q, want 0", n.Text())
	}
	if _, ok := n.Styles()["right"]; !ok {
		t.Errorf("label styles %v, want right placement", n.Styles())
	}

	// A shorter canvas fits fewer labels; the extra ones are removed.
	host.h = 40
	g.Reset()
	if err := g.Paint(); err != nil {
		t.Fatalf("Paint: %v", err)
	}
	if got := host.overlay.Len(); got >= first {
		t.Errorf("labels after shrink = %d, want fewer than %d", got, first)
	}
	if host.removed != first-host.overlay.Len() {
		t.Errorf("removed %d labels, want %d", host.removed, first-host.overlay.Len())
	}
}

func TestValueGeometryNoLabels(t *testing.T) {
	host := newTestHost(100, 100)
	g := NewValueGeometry(WithValueLabels(LabelsNone))
	g.Initialize(host)

	if err := g.Paint(); err != nil {
		t.Fatalf("Paint: %v", err)
	}
	if host.overlay.Len() != 0 {
		t.Errorf("placed %d labels, want none", host.overlay.Len())
	}
}

func TestTimeGeometryScale(t *testing.T) {
	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	host := newTestHost(240, 100)
	g := NewTimeGeometry()
	g.Initialize(host)

	g.SetRange(data.Range{EarliestDate: from, LatestDate: from.Add(24 * time.Hour)})
	if got := g.ToScreen(from.Add(6 * time.Hour)); got != 60 {
		t.Errorf("ToScreen(+6h) = %v, want 60", got)
	}
	if got := g.FromScreen(120); !got.Equal(from.Add(12 * time.Hour)) {
		t.Errorf("FromScreen(120) = %v", got)
	}

	g.SetRange(data.Range{})
	if f, _ := g.Period(); !f.Equal(from) {
		t.Errorf("empty range changed the period to start %v", f)
	}

	g.SetRange(data.Range{EarliestDate: from, LatestDate: from})
	f, to := g.Period()
	if to.Sub(f) != 2*time.Hour {
		t.Errorf("instant range widened to %v, want 2h", to.Sub(f))
	}
}

func TestTimeGeometryFixedPeriod(t *testing.T) {
	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	g := NewTimeGeometry(WithPeriod(from, from.Add(time.Hour)))
	g.SetRange(data.Range{EarliestDate: from.Add(-time.Hour), LatestDate: from.Add(5 * time.Hour)})

	f, to := g.Period()
	if !f.Equal(from) || !to.Equal(from.Add(time.Hour)) {
		t.Errorf("Period = [%v, %v], want fixed hour", f, to)
	}
}

func TestTimeGeometryZoneLabels(t *testing.T) {
	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	host := newTestHost(400, 100)
	g := NewTimeGeometry(WithTimeID("t"), WithTimeZone(2), WithTimeGrid("#cccccc"))
	g.Initialize(host)
	g.SetRange(data.Range{EarliestDate: from, LatestDate: from.Add(4 * time.Hour)})

	if err := g.Paint(); err != nil {
		t.Fatalf("Paint: %v", err)
	}
	n, ok := host.overlay.Lookup("t-0")
	if !ok {
		t.Fatal("label t-0 not placed")
	}
	if n.Text() != "02:00" {
		t.Errorf("first label = %q, want 02:00 in UTC+2", n.Text())
	}
	if _, ok := n.Styles()["bottom"]; !ok {
		t.Errorf("label styles %v, want bottom placement", n.Styles())
	}
}
