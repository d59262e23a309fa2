package compliance

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/kilianp07/emitest/core/emission"
	"github.com/kilianp07/emitest/core/model"
	"github.com/kilianp07/emitest/infra/logger"
)

type fixedStrategy struct{ v float64 }

func (s fixedStrategy) Calculate(float64) float64 { return s.v }

type countingStrategy struct {
	calls atomic.Int32
	v     float64
}

func (s *countingStrategy) Calculate(float64) float64 {
	s.calls.Add(1)
	return s.v
}

func gasVehicle(displacement float64) model.Vehicle {
	return model.Vehicle{Category: model.CategoryGas, Age: 5, Standard: "BS6", Param: displacement, Strategy: emission.NewGasStrategy(0)}
}

func TestNewTestStartsPending(t *testing.T) {
	test := NewTest("Vehicle_1", gasVehicle(2000), 180, logger.NopLogger{}, nil)
	if test.State() != StatePending {
		t.Fatalf("expected pending got %s", test.State())
	}
}

func TestPerformGasOverLimit(t *testing.T) {
	test := NewTest("Vehicle_1", gasVehicle(2000), 180, logger.NopLogger{}, nil)
	if err := test.Perform(context.Background()); err != nil {
		t.Fatalf("perform: %v", err)
	}
	if !test.Completed() {
		t.Fatalf("expected completed got %s", test.State())
	}
	if test.Compliant() {
		t.Fatalf("2000cc at limit 180 must fail")
	}
	if test.Emission() != 200 {
		t.Fatalf("expected emission 200 got %g", test.Emission())
	}
}

func TestPerformGasUnderLimit(t *testing.T) {
	test := NewTest("Vehicle_3", gasVehicle(1500), 180, logger.NopLogger{}, nil)
	if err := test.Perform(context.Background()); err != nil {
		t.Fatalf("perform: %v", err)
	}
	if !test.Compliant() {
		t.Fatalf("1500cc at limit 180 must pass")
	}
}

func TestPerformElectricZeroEmission(t *testing.T) {
	v := model.Vehicle{Category: model.CategoryElectric, Age: 2, Standard: "EV", Param: 50, Strategy: emission.ElectricStrategy{}}
	test := NewTest("Vehicle_2", v, 1, logger.NopLogger{}, nil)
	if err := test.Perform(context.Background()); err != nil {
		t.Fatalf("perform: %v", err)
	}
	if !test.Compliant() {
		t.Fatalf("electric vehicle must pass any positive limit")
	}
}

func TestPerformBoundaryEmissionEqualsLimit(t *testing.T) {
	v := model.Vehicle{Category: model.CategoryGas, Param: 1, Strategy: fixedStrategy{180}}
	test := NewTest("Vehicle_1", v, 180, logger.NopLogger{}, nil)
	if err := test.Perform(context.Background()); err != nil {
		t.Fatalf("perform: %v", err)
	}
	if !test.Compliant() {
		t.Fatalf("emission equal to the limit must pass")
	}
}

func TestPerformInvalidEmissionStaysInProgress(t *testing.T) {
	v := model.Vehicle{Category: model.CategoryGas, Param: 1, Strategy: fixedStrategy{-5}}
	test := NewTest("Vehicle_1", v, 180, logger.NopLogger{}, nil)
	err := test.Perform(context.Background())
	if !errors.Is(err, ErrInvalidEmission) {
		t.Fatalf("expected ErrInvalidEmission got %v", err)
	}
	if test.State() != StateInProgress {
		t.Fatalf("expected in_progress got %s", test.State())
	}
	if test.Completed() {
		t.Fatalf("failed test must not be completed")
	}
}

func TestPerformIdempotentOnceCompleted(t *testing.T) {
	strat := &countingStrategy{v: 100}
	v := model.Vehicle{Category: model.CategoryGas, Param: 1, Strategy: strat}
	test := NewTest("Vehicle_1", v, 180, logger.NopLogger{}, nil)
	if err := test.Perform(context.Background()); err != nil {
		t.Fatalf("perform: %v", err)
	}
	first := test.Compliant()
	if err := test.Perform(context.Background()); err != nil {
		t.Fatalf("second perform: %v", err)
	}
	if got := strat.calls.Load(); got != 1 {
		t.Fatalf("evaluation ran %d times, want 1", got)
	}
	if test.Compliant() != first {
		t.Fatalf("verdict mutated on re-perform")
	}
}
