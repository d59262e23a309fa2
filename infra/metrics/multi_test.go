package metrics

import (
	"testing"

	coremetrics "github.com/kilianp07/emitest/core/metrics"
)

type recordingSink struct {
	results int
	fleet   int
}

func (s *recordingSink) RecordTestResult(res []coremetrics.TestResult) error {
	s.results += len(res)
	return nil
}

func (s *recordingSink) RecordFleetSize(size int) error {
	s.fleet = size
	return nil
}

func TestMultiSinkForwards(t *testing.T) {
	a := &recordingSink{}
	b := &recordingSink{}
	m := NewMultiSink(a, b, coremetrics.NopSink{})
	if err := m.RecordTestResult([]coremetrics.TestResult{{VehicleID: "Vehicle_1"}}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := m.RecordFleetSize(7); err != nil {
		t.Fatalf("fleet size: %v", err)
	}
	if a.results != 1 || b.results != 1 {
		t.Fatalf("results not forwarded: %d %d", a.results, b.results)
	}
	if a.fleet != 7 || b.fleet != 7 {
		t.Fatalf("fleet size not forwarded: %d %d", a.fleet, b.fleet)
	}
}
