// Package metrics holds the Prometheus instruments exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles every instrument the server registers. Instruments are
// registered against the given registerer, so tests can use a private
// registry without duplicate-registration panics.
type Metrics struct {
	Registry *prometheus.Registry

	RecordsCreated prometheus.Counter
	RecordsTrashed prometheus.Counter
	RecordsPurged  prometheus.Counter
	UsersCreated   prometheus.Counter

	RequestDuration *prometheus.HistogramVec
}

// New creates a fresh registry and registers all instruments on it.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		RecordsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "passvault_records_created_total",
			Help: "Total number of credential records created.",
		}),
		RecordsTrashed: factory.NewCounter(prometheus.CounterOpts{
			Name: "passvault_records_trashed_total",
			Help: "Total number of records moved to the trash.",
		}),
		RecordsPurged: factory.NewCounter(prometheus.CounterOpts{
			Name: "passvault_records_purged_total",
			Help: "Total number of records permanently deleted, including retention sweeps.",
		}),
		UsersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "passvault_users_created_total",
			Help: "Total number of registered accounts.",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "passvault_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern and status code.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
}
