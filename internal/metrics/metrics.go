// Package metrics holds the service's prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	WebmentionsReceived = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "eventpub_webmentions_received_total",
		Help: "Inbound webmentions accepted for processing.",
	})

	WebmentionsStored = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "eventpub_webmentions_stored_total",
		Help: "Webmentions successfully converted into response records.",
	})

	ResponseAnomalies = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "eventpub_response_anomalies_total",
		Help: "Response records outside the known taxonomy, by stage.",
	}, []string{"stage"})

	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "eventpub_http_requests_total",
		Help: "HTTP requests by method and status.",
	}, []string{"method", "status"})
)

func init() {
	prometheus.MustRegister(
		WebmentionsReceived,
		WebmentionsStored,
		ResponseAnomalies,
		HTTPRequests,
	)
}
