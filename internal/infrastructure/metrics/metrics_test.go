package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := NewWithRegisterer(registry)
	if m.ForecastsCollected == nil || m.FXLookups == nil || m.DBRetries == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.ForecastsCollected.Inc()
	m.FXLookups.WithLabelValues("hit").Inc()

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}

	if got := testutil.ToFloat64(m.ForecastsCollected); got != 1 {
		t.Fatalf("expected forecast counter 1, got %v", got)
	}
}

func TestNewUsesDefaultRegisterer(t *testing.T) {
	registry := prometheus.NewRegistry()
	original := prometheus.DefaultRegisterer
	prometheus.DefaultRegisterer = registry
	t.Cleanup(func() { prometheus.DefaultRegisterer = original })

	New()

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	if len(families) == 0 {
		t.Fatalf("expected metrics on the default registerer")
	}
}
