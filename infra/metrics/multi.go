package metrics

import coremetrics "github.com/kilianp07/emitest/core/metrics"

// MultiSink fans test results out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordTestResult forwards the records to all sinks, returning the first error encountered.
func (m *MultiSink) RecordTestResult(res []coremetrics.TestResult) error {
	for _, s := range m.Sinks {
		if err := s.RecordTestResult(res); err != nil {
			return err
		}
	}
	return nil
}

// RecordFleetSize forwards fleet size metrics when supported by the sink.
func (m *MultiSink) RecordFleetSize(size int) error {
	for _, s := range m.Sinks {
		if fr, ok := s.(coremetrics.FleetSizeRecorder); ok {
			if err := fr.RecordFleetSize(size); err != nil {
				return err
			}
		}
	}
	return nil
}
