package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "schedule_assistant"

// Metrics exposes Prometheus collectors for assistant and transport activity.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	intents        *prometheus.CounterVec
	bookings       *prometheus.CounterVec
	replyDuration  prometheus.Histogram
	sessionsActive prometheus.Gauge
	wsConnections  prometheus.Gauge
	rateLimited    *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
}

// MustNewMetrics registers the collectors on reg and panics on registration
// errors. Tests should pass a fresh prometheus.NewRegistry().
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		intents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assistant",
			Name:      "intents_total",
			Help:      "Messages handled by the assistant, by classified intent.",
		}, []string{"intent"}),
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assistant",
			Name:      "bookings_total",
			Help:      "Booking attempts by outcome.",
		}, []string{"outcome"}),
		replyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "assistant",
			Name:      "reply_duration_seconds",
			Help:      "Time spent producing a reply, including any thinking delay.",
			Buckets:   prometheus.DefBuckets,
		}),
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "active",
			Help:      "Sessions currently held in the session cache.",
		}),
		wsConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "connections",
			Help:      "Open WebSocket connections.",
		}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ratelimit",
			Name:      "rejected_total",
			Help:      "Requests rejected by the rate limiter, by scope.",
		}, []string{"scope"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "status"}),
	}

	reg.MustRegister(
		m.intents,
		m.bookings,
		m.replyDuration,
		m.sessionsActive,
		m.wsConnections,
		m.rateLimited,
		m.httpRequests,
	)
	return m
}

func (m *Metrics) IncIntent(intent string) {
	if m == nil {
		return
	}
	m.intents.WithLabelValues(intent).Inc()
}

// IncBooking records a booking attempt; outcome is "booked" or "conflict".
func (m *Metrics) IncBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookings.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveReply(d time.Duration) {
	if m == nil {
		return
	}
	m.replyDuration.Observe(d.Seconds())
}

func (m *Metrics) SetSessions(n int) {
	if m == nil {
		return
	}
	m.sessionsActive.Set(float64(n))
}

func (m *Metrics) IncConnections() {
	if m == nil {
		return
	}
	m.wsConnections.Inc()
}

func (m *Metrics) DecConnections() {
	if m == nil {
		return
	}
	m.wsConnections.Dec()
}

func (m *Metrics) IncRateLimited(scope string) {
	if m == nil {
		return
	}
	m.rateLimited.WithLabelValues(scope).Inc()
}

func (m *Metrics) IncHTTPRequest(route, status string) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, status).Inc()
}
