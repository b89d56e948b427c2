package timeplot

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/gogpu/gg"
	"github.com/google/uuid"

	"github.com/gogpu/timeplot/data"
	"github.com/gogpu/timeplot/geometry"
	"github.com/gogpu/timeplot/overlay"
	"github.com/gogpu/timeplot/painter"
	"github.com/gogpu/timeplot/plot"
	"github.com/gogpu/timeplot/schedule"
	"github.com/gogpu/timeplot/surface"
)

// Messages shown by a timeplot.
const (
	LoadingText     = "Loading..."
	UnsupportedText = "We're sorry, but this host does not support drawing, so the timeplot cannot be shown."
)

// ErrDisposed is returned by operations on a disposed timeplot.
var ErrDisposed = errors.New("timeplot: disposed")

// Prove Timeplot is a plot host.
var _ plot.Host = (*Timeplot)(nil)

// Timeplot paints the plots of one container.
//
// Timeplot is safe for concurrent use. Data sources may notify it from any
// goroutine; paint passes run on the scheduler's timer.
type Timeplot struct {
	id        string
	env       *Env
	logger    *slog.Logger
	clock     schedule.Clock
	alertFor  time.Duration
	container surface.Container

	surface  *surface.Manager // nil when unsupported
	overlay  *overlay.Manager
	painters *painter.Registry
	sched    *schedule.Scheduler
	loading  *overlay.Message
	alert    *overlay.Message
	fallback *overlay.Message

	// paintMu serializes paint passes with the geometry changes made by
	// Update and Repaint.
	paintMu sync.Mutex

	mu        sync.RWMutex
	plots     []*plot.Plot
	listeners map[*plot.Plot]data.Listener
	hooks     []func()
	loads     int
	alertTm   schedule.Timer
	disposed  bool
}

// Create builds a timeplot on container with one plot per info. If the
// host cannot provide a drawing surface, Create returns a timeplot that
// shows a static message and never paints; Supported reports false.
func Create(container surface.Container, infos []plot.Info, opts ...Option) (*Timeplot, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	env := o.env
	if env == nil {
		env = NewEnv()
	}
	env.init()

	tp := &Timeplot{
		id:        o.id,
		env:       env,
		logger:    env.Logger(),
		clock:     o.clock,
		alertFor:  o.alertDuration,
		container: container,
		listeners: make(map[*plot.Plot]data.Listener),
	}
	if tp.id == "" {
		tp.id = "t-" + uuid.NewString()
	}
	tp.logger = tp.logger.With("timeplot", tp.id)

	overlayOpts := []overlay.Option{overlay.WithLogger(tp.logger)}
	if o.stylesheet != nil {
		overlayOpts = append(overlayOpts, overlay.WithStylesheet(o.stylesheet))
	}
	tp.overlay = overlay.NewManager(tp.id, frame{tp}, overlayOpts...)

	var surfOpts []surface.Option
	if o.provider != nil {
		surfOpts = append(surfOpts, surface.WithProvider(o.provider))
	}
	s, err := surface.New(container, surfOpts...)
	switch {
	case errors.Is(err, surface.ErrUnsupportedSurface):
		tp.logger.Warn("timeplot: drawing surface not supported", "err", err)
		tp.fallback = tp.overlay.NewMessage("unsupported", UnsupportedText, overlay.ClassMessage, nil)
		tp.fallback.Show()
		return tp, nil
	case err != nil:
		return nil, fmt.Errorf("timeplot: create surface: %w", err)
	}
	tp.surface = s

	tp.painters = painter.NewRegistry(
		painter.WithLogger(tp.logger),
		painter.WithErrorHandler(tp.painterFailed),
	)
	tp.sched = schedule.New(tp.tick,
		schedule.WithClock(o.clock),
		schedule.WithDelay(o.delay),
		schedule.WithLogger(tp.logger),
	)
	tp.loading = tp.overlay.NewMessage("loading", LoadingText, overlay.ClassMessage, nil)
	tp.alert = tp.overlay.NewMessage("alert", "", overlay.ClassAlert, nil)

	for _, info := range infos {
		tp.addPlot(plot.New(info))
	}

	w, h := s.Size()
	tp.logger.Info("timeplot: created", "plots", len(infos), "width", w, "height", h)
	return tp, nil
}

// addPlot subscribes to the plot's data source, registers its painters
// and initializes it.
func (tp *Timeplot) addPlot(p *plot.Plot) {
	if ds := p.DataSource(); ds != nil {
		l := &data.ListenerFuncs{AddMany: tp.Update, Clear: tp.Update}
		ds.AddListener(l)
		tp.mu.Lock()
		tp.listeners[p] = l
		tp.mu.Unlock()
	}

	tg, vg := p.TimeGeometry(), p.ValueGeometry()
	tp.painters.Add(painter.Background, painter.Entry{Owner: tg, Action: tg.Paint})
	tp.painters.Add(painter.Background, painter.Entry{Owner: vg, Action: vg.Paint})
	tp.painters.Add(painter.Foreground, painter.Entry{Owner: p, Action: p.Paint})

	tp.mu.Lock()
	tp.plots = append(tp.plots, p)
	tp.mu.Unlock()

	tg.Initialize(tp)
	vg.Initialize(tp)
	p.Initialize(tp)
}

func (tp *Timeplot) painterFailed(e *painter.Error) {
	tp.env.metrics.PainterFailures.Inc()
	tp.logger.Error("timeplot: paint action failed",
		"layer", string(e.Layer), "owner", e.Owner, "err", e.Err)
}

// ID returns the timeplot identity.
func (tp *Timeplot) ID() string {
	return tp.id
}

// Env returns the shared context of the timeplot.
func (tp *Timeplot) Env() *Env {
	return tp.env
}

// Supported reports whether the host provided a drawing surface.
func (tp *Timeplot) Supported() bool {
	return tp.surface != nil
}

// Plots returns the managed plots in creation order.
func (tp *Timeplot) Plots() []*plot.Plot {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return slices.Clone(tp.plots)
}

// Width returns the width of the container including padding.
func (tp *Timeplot) Width() int {
	w, _ := tp.container.ClientSize()
	return w
}

// Height returns the height of the container including padding.
func (tp *Timeplot) Height() int {
	_, h := tp.container.ClientSize()
	return h
}

// InternalWidth returns the width of the container's content box.
func (tp *Timeplot) InternalWidth() int {
	w, _ := tp.container.ContentSize()
	return w
}

// InternalHeight returns the height of the container's content box.
func (tp *Timeplot) InternalHeight() int {
	_, h := tp.container.ContentSize()
	return h
}

// Padding returns the offset of the drawable area inside the container.
func (tp *Timeplot) Padding() (x, y float64) {
	if tp.surface == nil {
		return 0, 0
	}
	return tp.surface.Padding()
}

// Overlay returns the overlay manager.
func (tp *Timeplot) Overlay() *overlay.Manager {
	return tp.overlay
}

// Canvas implements geometry.Host. It returns nil when painting is
// disabled. The context must only be drawn on from paint actions.
func (tp *Timeplot) Canvas() *gg.Context {
	if tp.surface == nil {
		return nil
	}
	return tp.surface.Context()
}

// CanvasSize implements geometry.Host.
func (tp *Timeplot) CanvasSize() (w, h int) {
	if tp.surface == nil {
		return 0, 0
	}
	return tp.surface.Size()
}

// AddPainter registers a paint action. It reports whether the entry was
// added; an owner already in the layer is not added again.
func (tp *Timeplot) AddPainter(l painter.Layer, e painter.Entry) bool {
	if tp.painters == nil {
		return false
	}
	return tp.painters.Add(l, e)
}

// RemovePainter unregisters the entry of e's owner from the layer.
func (tp *Timeplot) RemovePainter(l painter.Layer, e painter.Entry) bool {
	if tp.painters == nil {
		return false
	}
	return tp.painters.Remove(l, e)
}

// OnPaint registers fn to run after each completed paint pass.
func (tp *Timeplot) OnPaint(fn func()) {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	tp.hooks = append(tp.hooks, fn)
}

func (tp *Timeplot) isDisposed() bool {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return tp.disposed
}

// Update pushes the current range of every plot's data source into the
// plot's geometries, then requests a paint. Data sources call it on every
// change.
func (tp *Timeplot) Update() {
	if tp.isDisposed() {
		return
	}

	tp.paintMu.Lock()
	for _, p := range tp.Plots() {
		ds := p.DataSource()
		if ds == nil {
			continue
		}
		if r, ok := ds.Range(); ok {
			p.ValueGeometry().SetRange(r)
			p.TimeGeometry().SetRange(r)
		}
	}
	tp.paintMu.Unlock()

	tp.Paint()
}

// Repaint re-reads the container geometry, resizes the surface, resets
// every geometry once, then requests a paint. Use it when the container
// may have been resized; Paint assumes the geometry is unchanged.
func (tp *Timeplot) Repaint() error {
	if tp.surface == nil {
		return surface.ErrUnsupportedSurface
	}
	if tp.isDisposed() {
		return ErrDisposed
	}

	tp.paintMu.Lock()
	err := tp.surface.Prepare()
	if err == nil {
		for _, g := range tp.geometries() {
			g.Reset()
		}
	}
	tp.paintMu.Unlock()

	if err != nil {
		return fmt.Errorf("timeplot: repaint: %w", err)
	}
	tp.Paint()
	return nil
}

// geometries returns the distinct geometries of the plots.
func (tp *Timeplot) geometries() []geometry.Geometry {
	var out []geometry.Geometry
	seen := make(map[string]bool)
	for _, p := range tp.Plots() {
		for _, g := range []geometry.Geometry{p.TimeGeometry(), p.ValueGeometry()} {
			if !seen[g.ID()] {
				seen[g.ID()] = true
				out = append(out, g)
			}
		}
	}
	return out
}

// Paint requests a paint pass. Requests made before the pending pass
// fires are coalesced into it.
func (tp *Timeplot) Paint() {
	if tp.sched == nil || tp.isDisposed() {
		return
	}
	tp.env.metrics.PaintRequests.Inc()
	tp.sched.Request()
}

// tick is one paint pass: clear, background painters, foreground
// painters, then the OnPaint hooks.
func (tp *Timeplot) tick() {
	tp.paintMu.Lock()
	if tp.isDisposed() {
		tp.paintMu.Unlock()
		return
	}
	tp.surface.Clear()
	failed := 0
	for _, l := range painter.Layers {
		failed += tp.painters.Run(l)
	}
	tp.paintMu.Unlock()

	tp.env.metrics.Ticks.Inc()
	tp.logger.Debug("timeplot: painted", "failed", failed)

	tp.mu.RLock()
	hooks := slices.Clone(tp.hooks)
	tp.mu.RUnlock()
	for _, fn := range hooks {
		fn()
	}
}

// DisposePlot removes p's painters and data source subscription and
// disposes it. Geometries still used by another plot keep painting.
func (tp *Timeplot) DisposePlot(p *plot.Plot) {
	tp.mu.Lock()
	i := slices.Index(tp.plots, p)
	if i < 0 {
		tp.mu.Unlock()
		return
	}
	tp.plots = slices.Delete(tp.plots, i, i+1)
	l := tp.listeners[p]
	delete(tp.listeners, p)
	remaining := slices.Clone(tp.plots)
	tp.mu.Unlock()

	if l != nil {
		p.DataSource().RemoveListener(l)
	}

	inUse := make(map[string]bool)
	for _, q := range remaining {
		inUse[q.TimeGeometry().ID()] = true
		inUse[q.ValueGeometry().ID()] = true
	}
	if tp.painters != nil {
		for _, g := range []geometry.Geometry{p.TimeGeometry(), p.ValueGeometry()} {
			if !inUse[g.ID()] {
				tp.painters.RemoveOwner(painter.Background, g)
			}
		}
		tp.painters.RemoveOwner(painter.Foreground, p)
	}
	p.Dispose()
	tp.Paint()
}

// Dispose releases the timeplot: pending paints are cancelled, plots are
// disposed and overlays removed. Dispose is idempotent.
func (tp *Timeplot) Dispose() error {
	for _, p := range tp.Plots() {
		tp.DisposePlot(p)
	}

	tp.mu.Lock()
	if tp.disposed {
		tp.mu.Unlock()
		return nil
	}
	tp.disposed = true
	if tp.alertTm != nil {
		tp.alertTm.Stop()
	}
	tp.mu.Unlock()

	if tp.sched != nil {
		tp.sched.Close()
	}
	if w := tp.env.windows; w != nil {
		if n := w.Current(); n != nil && n.Attached() && tp.owns(n) {
			w.Close()
		}
	}

	// Wait for a running pass before releasing the surface.
	tp.paintMu.Lock()
	defer tp.paintMu.Unlock()

	if tp.painters != nil {
		tp.painters.Clear()
	}
	tp.overlay.Clear()
	tp.logger.Info("timeplot: disposed")
	if tp.surface != nil {
		return tp.surface.Close()
	}
	return nil
}

func (tp *Timeplot) owns(n *overlay.Node) bool {
	for _, m := range tp.overlay.Nodes() {
		if m == n {
			return true
		}
	}
	return false
}

// frame exposes the surface geometry to the overlay manager.
type frame struct {
	tp *Timeplot
}

func (f frame) Padding() (float64, float64) {
	return f.tp.Padding()
}

func (f frame) ClientSize() (int, int) {
	return f.tp.container.ClientSize()
}
