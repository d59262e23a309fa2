package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kilianp07/emitest/api/results"
	"github.com/kilianp07/emitest/config"
	"github.com/kilianp07/emitest/core/compliance"
	"github.com/kilianp07/emitest/core/emission"
	"github.com/kilianp07/emitest/core/events"
	coremetrics "github.com/kilianp07/emitest/core/metrics"
	"github.com/kilianp07/emitest/core/model"
	"github.com/kilianp07/emitest/infra/logger"
	"github.com/kilianp07/emitest/infra/metrics"
	"github.com/kilianp07/emitest/internal/eventbus"
)

// Service orchestrates a test campaign: it builds the fleet, runs all tests
// concurrently and exposes the results afterwards.
type Service struct {
	Runner      *compliance.Runner
	Fleet       []model.Vehicle
	cfg         *config.Config
	bus         eventbus.EventBus
	log         logger.Logger
	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	fleet, err := cfg.Fleet.Build(emission.DefaultRegistry(), cfg.Strategies)
	if err != nil {
		return nil, fmt.Errorf("build fleet: %w", err)
	}

	var sinks []coremetrics.Sink
	promEnabled := cfg.Metrics.PrometheusEnabled
	promPort := cfg.Metrics.PrometheusPort
	if promEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket)
		sinks = append(sinks, sink)
	}
	var sink coremetrics.Sink
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	bus := eventbus.New()
	runner := compliance.NewRunner(logg, bus, sink)
	return &Service{
		Runner:      runner,
		Fleet:       fleet,
		cfg:         cfg,
		bus:         bus,
		log:         logg,
		promEnabled: promEnabled,
		promPort:    promPort,
	}, nil
}

// Run executes the campaign and blocks until it finishes. When the results
// API is enabled, Run keeps serving the registry until the context is
// cancelled.
func (s *Service) Run(ctx context.Context) error {
	sub := s.bus.Subscribe()
	go s.watchEvents(sub)
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	registry, err := s.Runner.RunAll(ctx, s.Fleet, s.cfg.Test.LegalLimit)
	if err != nil {
		return fmt.Errorf("run campaign: %w", err)
	}
	for _, e := range registry.List() {
		verdict := "Fail"
		if e.Compliant {
			verdict = "Pass"
		}
		s.log.Infof("%s: %s", e.VehicleID, verdict)
	}

	if !s.cfg.API.Enabled {
		return nil
	}
	return s.serveResults(ctx, registry)
}

// serveResults exposes the registry and fleet details until ctx is cancelled.
func (s *Service) serveResults(ctx context.Context, registry *compliance.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/api/results", results.NewResultsHandler(registry))
	mux.Handle("/api/fleet", results.NewFleetHandler(s.Fleet))
	srv := &http.Server{Addr: s.cfg.API.Addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("results server shutdown: %v", err)
		}
	}()
	s.log.Infof("serving results on %s", s.cfg.API.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// watchEvents logs per-test diagnostics published on the bus.
func (s *Service) watchEvents(sub <-chan eventbus.Event) {
	for ev := range sub {
		switch e := ev.(type) {
		case events.TestStartedEvent:
			s.log.Debugw("test started", map[string]any{"vehicle_id": e.VehicleID, "category": e.Category.String()})
		case events.TestCompletedEvent:
			s.log.Debugw("test completed", map[string]any{"vehicle_id": e.VehicleID, "emission": e.Emission, "compliant": e.Compliant})
		case events.TestFailedEvent:
			s.log.Debugw("test failed", map[string]any{"vehicle_id": e.VehicleID, "error": e.Err.Error()})
		}
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	return nil
}
