package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Registry *prometheus.Registry

	SuccessfulRequests *prometheus.CounterVec
	BadRequests        *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	PostsCreated       prometheus.Counter
	PostsDeleted       prometheus.Counter
	ImagesUploaded     prometheus.Counter
	Searches           *prometheus.CounterVec
	StepUpFailures     prometheus.Counter
	Lockouts           prometheus.Counter
	Subscriptions      *prometheus.CounterVec
}

func InitMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		SuccessfulRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sugurico_successful_requests_total",
				Help: "Total number of successful (2xx/3xx) HTTP requests",
			},
			[]string{"method", "route"},
		),
		BadRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sugurico_unsuccessful_requests_total",
				Help: "Total number of unsuccessful (4xx/5xx) HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sugurico_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		PostsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sugurico_posts_created_total",
			Help: "Total number of posts created",
		}),
		PostsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sugurico_posts_deleted_total",
			Help: "Total number of posts deleted",
		}),
		ImagesUploaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sugurico_images_uploaded_total",
			Help: "Total number of images stored in object storage",
		}),
		Searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sugurico_searches_total",
				Help: "Total number of searches by search type",
			},
			[]string{"type"},
		),
		StepUpFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sugurico_step_up_failures_total",
			Help: "Failed password re-verifications before premium payment",
		}),
		Lockouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sugurico_step_up_lockouts_total",
			Help: "Accounts locked out of premium payment",
		}),
		Subscriptions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sugurico_subscriptions_total",
				Help: "Premium subscriptions by plan",
			},
			[]string{"plan"},
		),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.SuccessfulRequests,
		m.BadRequests,
		m.RequestDuration,
		m.PostsCreated,
		m.PostsDeleted,
		m.ImagesUploaded,
		m.Searches,
		m.StepUpFailures,
		m.Lockouts,
		m.Subscriptions,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished request.
func (m *Metrics) ObserveRequest(method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route).Observe(seconds)
	if status >= 400 {
		m.BadRequests.WithLabelValues(method, route, http.StatusText(status)).Inc()
		return
	}
	m.SuccessfulRequests.WithLabelValues(method, route).Inc()
}

func (m *Metrics) PostCreated() {
	if m != nil {
		m.PostsCreated.Inc()
	}
}

func (m *Metrics) PostDeleted() {
	if m != nil {
		m.PostsDeleted.Inc()
	}
}

func (m *Metrics) ImagesStored(n int) {
	if m != nil && n > 0 {
		m.ImagesUploaded.Add(float64(n))
	}
}

func (m *Metrics) Searched(kind string) {
	if m != nil {
		m.Searches.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) StepUpFailed(locked bool) {
	if m == nil {
		return
	}
	m.StepUpFailures.Inc()
	if locked {
		m.Lockouts.Inc()
	}
}

func (m *Metrics) Subscribed(plan string) {
	if m != nil {
		m.Subscriptions.WithLabelValues(plan).Inc()
	}
}
