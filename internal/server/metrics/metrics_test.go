package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func delta(t *testing.T, collector prometheus.Collector, observe func()) float64 {
	t.Helper()

	before := testutil.ToFloat64(collector)
	observe()
	after := testutil.ToFloat64(collector)
	return after - before
}

func TestObserveOperation(t *testing.T) {
	start := time.Now().Add(-time.Second)

	if inc := delta(t, operationsTotal.WithLabelValues("donate", "success"), func() {
		ObserveOperation("donate", nil, start)
	}); inc != 1 {
		t.Fatalf("expected success increment, got %v", inc)
	}

	if inc := delta(t, operationsTotal.WithLabelValues("withdraw", "error"), func() {
		ObserveOperation("withdraw", errors.New("boom"), start)
	}); inc != 1 {
		t.Fatalf("expected error increment, got %v", inc)
	}
}

func TestObserveFundsMoved(t *testing.T) {
	if inc := delta(t, fundsMovedTotal.WithLabelValues(DirectionDonated), func() {
		ObserveFundsMoved(DirectionDonated, 600)
		ObserveFundsMoved(DirectionDonated, 0)
	}); inc != 600 {
		t.Fatalf("expected 600 lamports, got %v", inc)
	}
}

func TestObserveStatusTransitionAndEvents(t *testing.T) {
	if inc := delta(t, statusTransitionsTotal.WithLabelValues("active", "failed"), func() {
		ObserveStatusTransition("active", "failed")
	}); inc != 1 {
		t.Fatalf("expected transition increment, got %v", inc)
	}

	if inc := delta(t, eventsPublishedTotal.WithLabelValues("project.created", "error"), func() {
		ObserveEventPublish("project.created", errors.New("down"))
	}); inc != 1 {
		t.Fatalf("expected publish error increment, got %v", inc)
	}
}
