package compliance

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/kilianp07/emitest/core/emission"
	"github.com/kilianp07/emitest/core/events"
	"github.com/kilianp07/emitest/core/metrics"
	"github.com/kilianp07/emitest/core/model"
	"github.com/kilianp07/emitest/infra/logger"
	"github.com/kilianp07/emitest/internal/eventbus"
)

type captureSink struct {
	mu    sync.Mutex
	recs  []metrics.TestResult
	fleet int
}

func (s *captureSink) RecordTestResult(res []metrics.TestResult) error {
	s.mu.Lock()
	s.recs = append(s.recs, res...)
	s.mu.Unlock()
	return nil
}

func (s *captureSink) RecordFleetSize(size int) error {
	s.mu.Lock()
	s.fleet = size
	s.mu.Unlock()
	return nil
}

func defaultFleet() []model.Vehicle {
	gas := emission.NewGasStrategy(0)
	return []model.Vehicle{
		{Category: model.CategoryGas, Age: 5, Standard: "BS6", Param: 2000, Strategy: gas},
		{Category: model.CategoryElectric, Age: 2, Standard: "EV", Param: 50, Strategy: emission.ElectricStrategy{}},
		{Category: model.CategoryGas, Age: 10, Standard: "BS4", Param: 1500, Strategy: gas},
	}
}

func TestRunAllVerdicts(t *testing.T) {
	r := NewRunner(logger.NopLogger{}, nil, nil)
	registry, err := r.RunAll(context.Background(), defaultFleet(), 180)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if registry.Len() != 3 {
		t.Fatalf("expected 3 entries got %d", registry.Len())
	}
	want := map[string]bool{"Vehicle_1": false, "Vehicle_2": true, "Vehicle_3": true}
	for id, compliant := range want {
		res, ok := registry.Lookup(id)
		if !ok {
			t.Fatalf("missing entry for %s", id)
		}
		if res.Compliant != compliant {
			t.Errorf("%s: expected compliant=%v got %v", id, compliant, res.Compliant)
		}
	}
}

func TestRunAllFailureLeavesNoEntry(t *testing.T) {
	sink := &captureSink{}
	bus := eventbus.New()
	defer bus.Close()
	sub := bus.Subscribe()
	r := NewRunner(logger.NopLogger{}, bus, sink)
	vehicles := []model.Vehicle{
		{Category: model.CategoryGas, Param: 1500, Strategy: emission.NewGasStrategy(0)},
		{Category: model.CategoryGas, Param: 1, Strategy: fixedStrategy{-5}},
	}
	registry, err := r.RunAll(context.Background(), vehicles, 180)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if registry.Len() != 1 {
		t.Fatalf("expected 1 entry got %d", registry.Len())
	}
	if _, ok := registry.Lookup("Vehicle_2"); ok {
		t.Fatalf("failed test must not be recorded")
	}

	var failed []events.TestFailedEvent
	for {
		select {
		case ev := <-sub:
			if f, ok := ev.(events.TestFailedEvent); ok {
				failed = append(failed, f)
			}
			continue
		default:
		}
		break
	}
	if len(failed) != 1 || failed[0].VehicleID != "Vehicle_2" {
		t.Fatalf("expected one failed event for Vehicle_2, got %#v", failed)
	}
	if !errors.Is(failed[0].Err, ErrInvalidEmission) {
		t.Fatalf("expected ErrInvalidEmission got %v", failed[0].Err)
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if sink.fleet != 2 {
		t.Errorf("fleet size not recorded: %d", sink.fleet)
	}
	var errored int
	for _, rec := range sink.recs {
		if !rec.Completed {
			errored++
			if rec.Error == "" || rec.VehicleID != "Vehicle_2" {
				t.Errorf("unexpected error record: %#v", rec)
			}
		}
	}
	if errored != 1 {
		t.Errorf("expected 1 errored record got %d", errored)
	}
}

func TestRunAllConcurrentStress(t *testing.T) {
	const n = 100
	vehicles := make([]model.Vehicle, n)
	for i := range vehicles {
		vehicles[i] = model.Vehicle{Category: model.CategoryGas, Param: 1, Strategy: fixedStrategy{float64(i * 10)}}
	}
	r := NewRunner(logger.NopLogger{}, eventbus.New(), &captureSink{})
	registry, err := r.RunAll(context.Background(), vehicles, 500)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if registry.Len() != n {
		t.Fatalf("expected %d entries got %d", n, registry.Len())
	}
	for i := 0; i < n; i++ {
		res, ok := registry.Lookup(VehicleID(i))
		if !ok {
			t.Fatalf("missing entry for index %d", i)
		}
		if want := float64(i*10) <= 500; res.Compliant != want {
			t.Errorf("index %d: expected compliant=%v got %v", i, want, res.Compliant)
		}
	}
}

func TestVehicleIDRoundTrip(t *testing.T) {
	for _, i := range []int{0, 1, 9, 99} {
		id := VehicleID(i)
		idx, err := ParseVehicleID(id)
		if err != nil || idx != i {
			t.Fatalf("round trip failed for %d: %v %v", i, idx, err)
		}
	}
}

func TestParseVehicleIDMalformed(t *testing.T) {
	for _, in := range []string{"", "foo", "Vehicle_", "Vehicle_x", "Vehicle_0", "Vehicle_-1"} {
		if _, err := ParseVehicleID(in); !errors.Is(err, ErrMalformedIdentifier) {
			t.Errorf("%q: expected ErrMalformedIdentifier got %v", in, err)
		}
	}
}
