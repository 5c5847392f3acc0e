// README: Prometheus metrics for matching, lifecycles, and HTTP traffic.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MatchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hitch", Name: "matches_total", Help: "Requests successfully matched to a driver"})
	RequestsExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hitch", Name: "requests_expired_total", Help: "Requests that timed out while searching"})
	RidesCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hitch", Name: "rides_completed_total", Help: "Rides completed with a final fare"})
	RidesCancelledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hitch", Name: "rides_cancelled_total", Help: "Rides cancelled, by initiator"},
		[]string{"initiator"},
	)
	DriversAvailable = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "hitch", Name: "drivers_available", Help: "Drivers currently free for matching"})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hitch", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hitch",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
