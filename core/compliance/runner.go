package compliance

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/emitest/core/events"
	"github.com/kilianp07/emitest/core/logger"
	"github.com/kilianp07/emitest/core/metrics"
	"github.com/kilianp07/emitest/core/model"
	"github.com/kilianp07/emitest/internal/eventbus"
)

const idPrefix = "Vehicle_"

// VehicleID returns the deterministic identifier for the vehicle at the
// given zero-based position in the campaign fleet.
func VehicleID(index int) string {
	return fmt.Sprintf("%s%d", idPrefix, index+1)
}

// ParseVehicleID converts an identifier like "Vehicle_2" back to its
// zero-based fleet index. It returns ErrMalformedIdentifier when the input
// does not follow the expected shape.
func ParseVehicleID(id string) (int, error) {
	num, ok := strings.CutPrefix(id, idPrefix)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMalformedIdentifier, id)
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedIdentifier, id)
	}
	return n - 1, nil
}

// Runner executes one concurrent test per vehicle and merges verdicts into a
// shared registry.
type Runner struct {
	log     logger.Logger
	bus     eventbus.EventBus
	metrics metrics.Sink
	runID   string
}

// NewRunner creates a Runner. bus and sink may be nil.
func NewRunner(log logger.Logger, bus eventbus.EventBus, sink metrics.Sink) *Runner {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Runner{log: log, bus: bus, metrics: sink, runID: uuid.NewString()}
}

// RunID returns the identifier tagged on all results of this runner.
func (r *Runner) RunID() string { return r.runID }

// RunAll tests every vehicle against the legal limit, one goroutine per
// vehicle, and returns once all of them have finished. A failing test is
// reported for its identifier and leaves no registry entry; it never aborts
// sibling tests. The returned error is reserved for context cancellation.
func (r *Runner) RunAll(ctx context.Context, vehicles []model.Vehicle, legalLimit float64) (*Registry, error) {
	registry := NewRegistry()
	if fr, ok := r.metrics.(metrics.FleetSizeRecorder); ok {
		if err := fr.RecordFleetSize(len(vehicles)); err != nil {
			r.log.Errorf("fleet size metrics error: %v", err)
		}
	}
	g, ctx := errgroup.WithContext(ctx)
	for i, v := range vehicles {
		id := VehicleID(i)
		vehicle := v
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			test := NewTest(id, vehicle, legalLimit, r.log, r.bus)
			if err := test.Perform(ctx); err != nil {
				r.reportFailure(id, vehicle, legalLimit, err, time.Since(start))
				return nil
			}
			res := Result{
				Compliant:   test.Compliant(),
				Emission:    test.Emission(),
				CompletedAt: time.Now(),
			}
			registry.Record(id, res)
			r.recordResult(metrics.TestResult{
				RunID:      r.runID,
				VehicleID:  id,
				Category:   vehicle.Category.String(),
				Emission:   res.Emission,
				LegalLimit: legalLimit,
				Compliant:  res.Compliant,
				Completed:  true,
				Duration:   time.Since(start),
				Time:       res.CompletedAt,
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return registry, err
	}
	r.log.Infof("campaign %s finished: %d/%d tests completed", r.runID, registry.Len(), len(vehicles))
	return registry, nil
}

// reportFailure isolates a failing test: the error is logged and surfaced
// through events and metrics for its identifier only.
func (r *Runner) reportFailure(id string, v model.Vehicle, legalLimit float64, err error, dur time.Duration) {
	r.log.Errorf("test %s failed: %v", id, err)
	if r.bus != nil {
		r.bus.Publish(events.TestFailedEvent{VehicleID: id, Err: err})
	}
	r.recordResult(metrics.TestResult{
		RunID:      r.runID,
		VehicleID:  id,
		Category:   v.Category.String(),
		LegalLimit: legalLimit,
		Completed:  false,
		Error:      err.Error(),
		Duration:   dur,
		Time:       time.Now(),
	})
}

func (r *Runner) recordResult(res metrics.TestResult) {
	if err := r.metrics.RecordTestResult([]metrics.TestResult{res}); err != nil {
		r.log.Errorf("metrics error: %v", err)
	}
}
