package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestObserveRefresh(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRefresh(2*time.Second, 42, map[string]string{"512 Beach": "connection refused"})
	m.ObserveRefresh(time.Second, 40, nil)
	m.ObserveFailure()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	byName := make(map[string]bool)
	for _, fam := range families {
		byName[fam.GetName()] = true
	}
	for _, name := range []string{
		"sandcal_refresh_total",
		"sandcal_source_errors_total",
		"sandcal_refresh_duration_seconds",
		"sandcal_tournaments",
		"sandcal_last_success_timestamp_seconds",
	} {
		if !byName[name] {
			t.Errorf("collector %q not registered", name)
		}
	}
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics
	m.ObserveRefresh(time.Second, 1, nil)
	m.ObserveFailure()
}
