// Package metrics defines the service's prometheus collectors. Exposed
// at /metrics via promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ValidationFailures counts failed vendor handshakes (ping, test
	// message, discovery) per vendor kind.
	ValidationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sightline_vendor_validation_failures_total",
		Help: "Failed vendor validation calls by vendor kind.",
	}, []string{"vendor"})

	// DispatchTotal counts share/notify outcomes.
	DispatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sightline_share_dispatch_total",
		Help: "Share dispatch requests by integration, source and outcome.",
	}, []string{"integration", "source", "outcome"})
)
