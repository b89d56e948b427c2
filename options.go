package timeplot

import (
	"time"

	"github.com/gogpu/timeplot/overlay"
	"github.com/gogpu/timeplot/schedule"
	"github.com/gogpu/timeplot/surface"
)

// Option configures a Timeplot during creation.
// Use functional options to customize Timeplot behavior.
//
// Example:
//
//	// Default software surface, private Env
//	tp, err := timeplot.Create(box, infos)
//
//	// Timeplots sharing popups and metrics
//	env := timeplot.NewEnv()
//	a, _ := timeplot.Create(boxA, infosA, timeplot.WithEnv(env))
//	b, _ := timeplot.Create(boxB, infosB, timeplot.WithEnv(env))
type Option func(*options)

// options holds optional configuration for Timeplot creation.
type options struct {
	id            string
	env           *Env
	provider      surface.Provider
	clock         schedule.Clock
	delay         time.Duration
	alertDuration time.Duration
	stylesheet    overlay.Stylesheet
}

// DefaultAlertDuration is how long a load failure alert stays visible.
const DefaultAlertDuration = 5 * time.Second

// defaultOptions returns the default timeplot options.
func defaultOptions() options {
	return options{
		clock:         schedule.RealClock,
		delay:         schedule.DefaultDelay,
		alertDuration: DefaultAlertDuration,
	}
}

// WithID sets the timeplot identity, which scopes its overlay nodes.
// By default a random one is used.
func WithID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}

// WithEnv sets the shared Env. By default each timeplot gets its own.
func WithEnv(env *Env) Option {
	return func(o *options) {
		o.env = env
	}
}

// WithProvider sets the drawing surface provider.
// By default the best provider of the surface registry is used.
//
// Example:
//
//	// Simulate a host without a drawing primitive
//	tp, _ := timeplot.Create(box, infos, timeplot.WithProvider(surface.Unsupported))
//	tp.Supported() // false
func WithProvider(p surface.Provider) Option {
	return func(o *options) {
		o.provider = p
	}
}

// WithClock sets the clock for paint ticks and alert timeouts.
// A nil clock keeps the wall clock.
func WithClock(c schedule.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithPaintDelay sets the window in which paint requests are coalesced.
func WithPaintDelay(d time.Duration) Option {
	return func(o *options) {
		o.delay = d
	}
}

// WithAlertDuration sets how long load failure alerts stay visible.
// Zero keeps them until the next load.
func WithAlertDuration(d time.Duration) Option {
	return func(o *options) {
		o.alertDuration = d
	}
}

// WithStylesheet replaces the overlay stylesheet.
func WithStylesheet(s overlay.Stylesheet) Option {
	return func(o *options) {
		o.stylesheet = s
	}
}
