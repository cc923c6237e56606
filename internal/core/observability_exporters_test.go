package core

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestPrometheusMetricsRecorderObserves(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusMetricsRecorder(reg)
	if err != nil {
		t.Fatalf("NewPrometheusMetricsRecorder: %v", err)
	}
	ctx := context.Background()
	rec.Observe(ctx, OpGetPerson, true, 2*time.Millisecond)
	rec.Observe(ctx, OpGetPerson, true, 4*time.Millisecond)
	rec.Observe(ctx, OpGetPerson, false, time.Millisecond)
	rec.Observe(ctx, "", true, time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	counts := map[string]uint64{}
	for _, mf := range families {
		if mf.GetName() != "peopledb_repository_operation_duration_seconds" {
			continue
		}
		for _, m := range mf.GetMetric() {
			var op, status string
			for _, lp := range m.GetLabel() {
				switch lp.GetName() {
				case "operation":
					op = lp.GetValue()
				case "status":
					status = lp.GetValue()
				}
			}
			counts[op+"/"+status] = m.GetHistogram().GetSampleCount()
		}
	}
	if counts[OpGetPerson+"/success"] != 2 || counts[OpGetPerson+"/error"] != 1 || len(counts) != 2 {
		t.Fatalf("unexpected histogram counts %v", counts)
	}
}

func TestPrometheusMetricsRecorderRejectsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPrometheusMetricsRecorder(reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := NewPrometheusMetricsRecorder(reg); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}
