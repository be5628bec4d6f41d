package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crusade_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "crusade_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	GameEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crusade_game_events_total",
		Help: "Total number of committed game events",
	}, []string{"event"})

	BusinessFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crusade_business_failures_total",
		Help: "Total number of rejected game operations",
	}, []string{"code"})

	BountyGold = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crusade_bounty_gold_total",
		Help: "Total gold paid out as dungeon bounties",
	})

	WebSocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "crusade_websocket_clients",
		Help: "Number of connected event feed clients",
	})
)

// ObserveRequest 记录一次HTTP请求
func ObserveRequest(method, route string, status int, seconds float64) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// RecordFailure 记录业务失败
func RecordFailure(code int) {
	BusinessFailures.WithLabelValues(strconv.Itoa(code)).Inc()
}
