package metrics

import "time"

// TestResult represents a per-vehicle test outcome to be recorded.
type TestResult struct {
	RunID      string
	VehicleID  string
	Category   string
	Emission   float64
	LegalLimit float64
	Compliant  bool
	// Completed is false when the test failed before producing a verdict;
	// Error then carries the failure reason.
	Completed bool
	Error     string
	Duration  time.Duration
	Time      time.Time
}

// Sink records test results for observability purposes.
type Sink interface {
	RecordTestResult(results []TestResult) error
}

// FleetSizeRecorder records the number of vehicles in a test campaign.
type FleetSizeRecorder interface {
	RecordFleetSize(size int) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordTestResult([]TestResult) error { return nil }

// Ensure NopSink implements FleetSizeRecorder.
func (NopSink) RecordFleetSize(int) error { return nil }
