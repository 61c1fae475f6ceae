// Package metrics holds the prometheus collectors for blog operations.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// PostsTotal counts successful post mutations by operation (create|update|delete).
	PostsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_posts_total",
			Help: "Total successful post mutations",
		},
		[]string{"op"},
	)

	// AuthTotal counts register/login/logout outcomes.
	AuthTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_auth_total",
			Help: "Authentication events by operation and result",
		},
		[]string{"op", "result"},
	)

	// ResetTotal tracks the password reset flow (requested|mail_sent|mail_failed|consumed|rejected).
	ResetTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_password_reset_total",
			Help: "Password reset events",
		},
		[]string{"event"},
	)

	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "blog_worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)

	WorkerPanicsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "blog_worker_panics_total",
			Help: "Background jobs that panicked",
		},
	)

	initOnce sync.Once
)

// Handler serves /metrics.
var Handler = promhttp.Handler

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(PostsTotal, AuthTotal, ResetTotal, WorkerQueueDepth, WorkerPanicsTotal)
	})
}
