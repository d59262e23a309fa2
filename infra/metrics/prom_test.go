package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/kilianp07/emitest/core/metrics"
)

func TestPromSink_RecordTestResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	sinkIf, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	sink, ok := sinkIf.(*PromSink)
	if !ok {
		t.Fatalf("expected PromSink")
	}
	recs := []coremetrics.TestResult{
		{VehicleID: "Vehicle_1", Category: "Gas", Emission: 200, LegalLimit: 180, Completed: true, Compliant: false, Duration: 5 * time.Millisecond},
		{VehicleID: "Vehicle_2", Category: "Electric", Emission: 0, LegalLimit: 180, Completed: true, Compliant: true, Duration: 3 * time.Millisecond},
		{VehicleID: "Vehicle_3", Category: "Gas", LegalLimit: 180, Completed: false, Error: "invalid emission level"},
	}
	if err := sink.RecordTestResult(recs); err != nil {
		t.Fatalf("record error: %v", err)
	}

	expected := `
# HELP emission_tests_total Total number of emission tests by verdict
# TYPE emission_tests_total counter
emission_tests_total{category="Electric",verdict="pass"} 1
emission_tests_total{category="Gas",verdict="error"} 1
emission_tests_total{category="Gas",verdict="fail"} 1
`
	if err := testutil.CollectAndCompare(sink.tests, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}

	if c := testutil.CollectAndCount(sink.duration); c == 0 {
		t.Errorf("duration not recorded")
	}

	if err := sink.RecordFleetSize(3); err != nil {
		t.Fatalf("fleet size error: %v", err)
	}
	if got := testutil.ToFloat64(sink.fleet); got != 3 {
		t.Errorf("fleet gauge = %v, want 3", got)
	}
}

func TestPromSink_Reregister(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg); err != nil {
		t.Fatalf("second: %v", err)
	}
}
