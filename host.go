package timeplot

import "github.com/gogpu/timeplot/overlay"

// PutText places a text overlay under identity, positioned relative to
// the drawable area.
func (tp *Timeplot) PutText(identity, text, classes string, styles overlay.Styles) *overlay.Node {
	return tp.overlay.PlaceText(identity, text, classes, styles)
}

// PutDiv places a box overlay under identity, positioned relative to the
// drawable area.
func (tp *Timeplot) PutDiv(identity, classes string, styles overlay.Styles) *overlay.Node {
	return tp.overlay.Place(identity, classes, styles)
}

// PlaceDiv applies styles to an existing overlay, offsetting positions by
// the padding.
func (tp *Timeplot) PlaceDiv(n *overlay.Node, styles overlay.Styles) {
	tp.overlay.Apply(n, styles)
}

// RemoveDiv detaches an overlay. Detached overlays are ignored.
func (tp *Timeplot) RemoveDiv(n *overlay.Node) {
	tp.overlay.Remove(n)
}

// Locate returns the position of an overlay relative to the drawable
// area.
func (tp *Timeplot) Locate(n *overlay.Node) overlay.Point {
	return tp.overlay.Locate(n)
}

// Popup implements plot.Host. It opens a bubble through the Env window
// manager, closing any popup open on a timeplot of the same Env.
func (tp *Timeplot) Popup(identity, text string, styles overlay.Styles) *overlay.Node {
	return tp.env.Windows().Open(tp.overlay, identity, text, styles)
}

// toDrawable converts container coordinates, y down, to drawable
// coordinates, y up.
func (tp *Timeplot) toDrawable(x, y float64) (float64, float64) {
	px, py := tp.Padding()
	_, h := tp.CanvasSize()
	return x - px, float64(h) - (y - py)
}

// Hover shows the value flags of the plots under the container position
// (x, y). It reports whether any flag is shown.
func (tp *Timeplot) Hover(x, y float64) bool {
	if !tp.Supported() || tp.isDisposed() {
		return false
	}
	dx, _ := tp.toDrawable(x, y)
	shown := false
	for _, p := range tp.Plots() {
		if p.ShowValues(dx) {
			shown = true
		}
	}
	return shown
}

// Leave hides every value flag.
func (tp *Timeplot) Leave() {
	for _, p := range tp.Plots() {
		p.HideValues()
	}
}

// Click opens a bubble for the events under the container position
// (x, y), or closes the open bubble when there are none. It reports
// whether a bubble was opened.
func (tp *Timeplot) Click(x, y float64) bool {
	if !tp.Supported() || tp.isDisposed() {
		return false
	}
	dx, dy := tp.toDrawable(x, y)
	for _, p := range tp.Plots() {
		if p.ShowEvents(dx, dy) {
			return true
		}
	}
	tp.env.Windows().Close()
	return false
}
