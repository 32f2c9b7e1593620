package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// Auth
	RegistrationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "forum_registrations_total",
			Help: "Successful user registrations",
		},
	)
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forum_logins_total",
			Help: "Login attempts by result",
		},
		[]string{"result"}, // success|failure
	)

	// Content
	PostsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forum_posts_total",
			Help: "Questions and answers created",
		},
		[]string{"kind"}, // question|answer
	)

	registerOnce sync.Once
)

// /metrics endpoint handler
var Handler = promhttp.Handler

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestsTotal)
		prometheus.MustRegister(RegistrationsTotal)
		prometheus.MustRegister(LoginsTotal)
		prometheus.MustRegister(PostsTotal)
	})
}

// RegisterGauge exposes a value sampled at scrape time, e.g. the hashing
// queue depth or the number of in-memory sessions.
func RegisterGauge(name, help string, f func() float64) {
	prometheus.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{Name: name, Help: help}, f))
}
