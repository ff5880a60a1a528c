// Package metrics registers the Prometheus collectors exported by the server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fundingme"

var (
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "service",
		Name:      "operations_total",
		Help:      "Count of service operations.",
	}, []string{"operation", "status"})
	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "service",
		Name:      "operation_duration_seconds",
		Help:      "Duration of service operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "status"})
	statusTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "projects",
		Name:      "status_transitions_total",
		Help:      "Count of project status transitions.",
	}, []string{"from", "to"})
	fundsMovedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "funds",
		Name:      "moved_lamports_total",
		Help:      "Native currency moved by project operations.",
	}, []string{"direction"})
	eventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Count of lifecycle events handed to the publisher.",
	}, []string{"kind", "status"})
)

// Fund movement directions.
const (
	DirectionDonated   = "donated"
	DirectionRefunded  = "refunded"
	DirectionWithdrawn = "withdrawn"
	DirectionReclaimed = "reclaimed"
	DirectionAirdrop   = "airdrop"
)

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func ObserveOperation(operation string, err error, started time.Time) {
	status := statusLabel(err)
	operationsTotal.WithLabelValues(operation, status).Inc()
	operationDuration.WithLabelValues(operation, status).Observe(time.Since(started).Seconds())
}

func ObserveStatusTransition(from, to string) {
	statusTransitionsTotal.WithLabelValues(from, to).Inc()
}

func ObserveFundsMoved(direction string, amount uint64) {
	if amount == 0 {
		return
	}
	fundsMovedTotal.WithLabelValues(direction).Add(float64(amount))
}

func ObserveEventPublish(kind string, err error) {
	eventsPublishedTotal.WithLabelValues(kind, statusLabel(err)).Inc()
}
