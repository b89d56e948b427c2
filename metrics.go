package timeplot

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts timeplot activity of an Env.
type Metrics struct {
	PaintRequests   prometheus.Counter
	Ticks           prometheus.Counter
	PainterFailures prometheus.Counter

	// LoadFailures is labeled by format, "text" or "xml".
	LoadFailures *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PaintRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "timeplot",
			Name:      "paint_requests_total",
			Help:      "Paint requests, including coalesced ones.",
		}),
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "timeplot",
			Name:      "paint_ticks_total",
			Help:      "Completed paint passes.",
		}),
		PainterFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "timeplot",
			Name:      "painter_failures_total",
			Help:      "Paint actions that returned an error or panicked.",
		}),
		LoadFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "timeplot",
			Name:      "load_failures_total",
			Help:      "Data loads that failed to fetch or parse.",
		}, []string{"format"}),
	}
	reg.MustRegister(m.PaintRequests, m.Ticks, m.PainterFailures, m.LoadFailures)
	return m
}
