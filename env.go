package timeplot

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gogpu/timeplot/loader"
	"github.com/gogpu/timeplot/overlay"
)

// Fetcher fetches data documents for LoadText and LoadXML.
type Fetcher interface {
	// Fetch returns the document decoded to UTF-8.
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)

	// FetchRaw returns the document as served.
	FetchRaw(ctx context.Context, url string) (io.ReadCloser, error)
}

// Prove the loader satisfies Fetcher.
var _ Fetcher = (*loader.Loader)(nil)

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithEnvLogger sets the logger of the timeplots sharing the Env. By
// default the package logger is used.
func WithEnvLogger(l *slog.Logger) EnvOption {
	return func(e *Env) {
		e.logger = l
	}
}

// WithRegisterer registers the Env metrics with r instead of a private
// registry.
func WithRegisterer(r prometheus.Registerer) EnvOption {
	return func(e *Env) {
		e.registerer = r
	}
}

// WithFetcher sets the fetcher used for loading data.
func WithFetcher(f Fetcher) EnvOption {
	return func(e *Env) {
		e.fetcher = f
	}
}

// Env is the context shared by a group of timeplots: logging, metrics,
// data fetching and the popup window manager. At most one popup is open
// across the timeplots of an Env.
//
// An Env is initialized once, on first use.
type Env struct {
	once sync.Once

	logger     *slog.Logger
	registerer prometheus.Registerer
	registry   *prometheus.Registry
	fetcher    Fetcher
	metrics    *Metrics
	windows    *overlay.WindowManager
}

// NewEnv returns an Env.
func NewEnv(opts ...EnvOption) *Env {
	e := &Env{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// init sets up the shared state. It is safe to call any number of times.
func (e *Env) init() {
	e.once.Do(func() {
		if e.registerer == nil {
			e.registry = prometheus.NewRegistry()
			e.registerer = e.registry
		}
		e.metrics = newMetrics(e.registerer)
		if e.fetcher == nil {
			e.fetcher = loader.New(loader.WithLogger(e.Logger()))
		}
		e.windows = &overlay.WindowManager{}
	})
}

// Logger returns the Env logger, or the package logger when none is set.
func (e *Env) Logger() *slog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return Logger()
}

// Metrics returns the Env counters.
func (e *Env) Metrics() *Metrics {
	e.init()
	return e.metrics
}

// Registry returns the private metrics registry, or nil when the Env was
// created WithRegisterer.
func (e *Env) Registry() *prometheus.Registry {
	e.init()
	return e.registry
}

// Fetcher returns the data fetcher.
func (e *Env) Fetcher() Fetcher {
	e.init()
	return e.fetcher
}

// Windows returns the popup window manager.
func (e *Env) Windows() *overlay.WindowManager {
	e.init()
	return e.windows
}
