// Package metrics exposes the Prometheus instrumentation for the simulator.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Simulations counts simulation runs by trigger (cli, upload, editor,
	// session) and status.
	Simulations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "casa_finan_simulations_total",
			Help: "Simulation runs.",
		},
		[]string{"trigger", "status"},
	)

	// SimulationDuration observes how long a full multi-payer run takes.
	SimulationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "casa_finan_simulation_duration_seconds",
			Help:    "Time spent computing all payer schedules.",
			Buckets: prometheus.DefBuckets,
		},
	)

	// SessionOperations counts session store operations by outcome.
	SessionOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "casa_finan_session_operations_total",
			Help: "Session store operations.",
		},
		[]string{"operation", "outcome"},
	)

	// HTTPRequests counts handled HTTP requests.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "casa_finan_http_requests_total",
			Help: "Handled HTTP requests.",
		},
		[]string{"route", "method", "code"},
	)
)

// Handler returns the Prometheus exposition endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
