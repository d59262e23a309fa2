package metrics

import (
	coremetrics "github.com/kilianp07/emitest/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records test outcomes in Prometheus metrics.
type PromSink struct {
	tests    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	fleet    prometheus.Gauge
}

// NewPromSink registers test metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	tests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "emission_tests_total",
		Help: "Total number of emission tests by verdict",
	}, []string{"category", "verdict"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "emission_test_duration_seconds",
		Help:    "Time to drive one test from pending to completed",
		Buckets: prometheus.DefBuckets,
	}, []string{"category", "verdict"})
	fleet := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "emission_test_fleet_size",
		Help: "Number of vehicles in the current test campaign",
	})

	if err := reg.Register(tests); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			tests = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(fleet); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			fleet = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{tests: tests, duration: duration, fleet: fleet}, nil
}

func verdict(r coremetrics.TestResult) string {
	switch {
	case !r.Completed:
		return "error"
	case r.Compliant:
		return "pass"
	default:
		return "fail"
	}
}

// RecordTestResult increments the counter and observes the duration for each
// test result.
func (s *PromSink) RecordTestResult(res []coremetrics.TestResult) error {
	for _, r := range res {
		v := verdict(r)
		s.tests.WithLabelValues(r.Category, v).Inc()
		s.duration.WithLabelValues(r.Category, v).Observe(r.Duration.Seconds())
	}
	return nil
}

// RecordFleetSize sets the gauge to the campaign fleet size.
func (s *PromSink) RecordFleetSize(size int) error {
	if s.fleet != nil {
		s.fleet.Set(float64(size))
	}
	return nil
}
