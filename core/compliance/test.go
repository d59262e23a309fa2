package compliance

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/kilianp07/emitest/core/events"
	"github.com/kilianp07/emitest/core/logger"
	"github.com/kilianp07/emitest/core/model"
	"github.com/kilianp07/emitest/internal/eventbus"
)

// Test states. A test starts pending, becomes in_progress when evaluation
// begins and reaches completed once the verdict is set. No transition skips
// a state.
const (
	StatePending    = "pending"
	StateInProgress = "in_progress"
	StateCompleted  = "completed"
)

const (
	eventStart    = "start"
	eventComplete = "complete"
)

// Test is one compliance test for one vehicle. It is owned exclusively by
// the executing goroutine until completed; afterwards the verdict is copied
// into the shared registry.
type Test struct {
	id         string
	vehicle    model.Vehicle
	legalLimit float64
	machine    *fsm.FSM
	emission   float64
	compliant  bool
	log        logger.Logger
	bus        eventbus.EventBus
}

// NewTest creates a test in the pending state. The bus may be nil if no
// diagnostic events are wanted.
func NewTest(id string, v model.Vehicle, legalLimit float64, log logger.Logger, bus eventbus.EventBus) *Test {
	t := &Test{id: id, vehicle: v, legalLimit: legalLimit, log: log, bus: bus}
	t.machine = fsm.NewFSM(StatePending,
		fsm.Events{
			{Name: eventStart, Src: []string{StatePending}, Dst: StateInProgress},
			{Name: eventComplete, Src: []string{StateInProgress}, Dst: StateCompleted},
		},
		fsm.Callbacks{
			"enter_" + StateInProgress: t.announceStart,
			"before_" + eventComplete:  t.evaluate,
			"enter_" + StateCompleted:  t.announceVerdict,
		},
	)
	return t
}

// ID returns the test identifier.
func (t *Test) ID() string { return t.id }

// State returns the current state of the test.
func (t *Test) State() string { return t.machine.Current() }

// Completed reports whether the test reached its terminal state.
func (t *Test) Completed() bool { return t.machine.Current() == StateCompleted }

// Compliant returns the verdict. It is meaningful only once Completed.
func (t *Test) Compliant() bool { return t.compliant }

// Emission returns the emission level captured during evaluation. It is
// meaningful only once Completed.
func (t *Test) Emission() float64 { return t.emission }

// Perform drives the test from pending through in_progress to completed and
// computes the compliance verdict exactly once. Calling Perform on a
// completed test is a no-op that keeps the stored verdict untouched. If the
// strategy yields a negative emission level the test stays in progress and
// ErrInvalidEmission is returned.
func (t *Test) Perform(ctx context.Context) error {
	if t.Completed() {
		t.log.Infof("test %s is already completed", t.id)
		return nil
	}
	if err := t.machine.Event(ctx, eventStart); err != nil {
		return fmt.Errorf("start test %s: %w", t.id, err)
	}
	if err := t.machine.Event(ctx, eventComplete); err != nil {
		var canceled fsm.CanceledError
		if errors.As(err, &canceled) && canceled.Err != nil {
			return canceled.Err
		}
		return fmt.Errorf("complete test %s: %w", t.id, err)
	}
	return nil
}

// announceStart makes the in_progress state observable to instrumentation.
func (t *Test) announceStart(context.Context, *fsm.Event) {
	t.log.Infof("test for %s is now in progress", t.id)
	if t.bus != nil {
		t.bus.Publish(events.TestStartedEvent{VehicleID: t.id, Category: t.vehicle.Category})
	}
}

// evaluate guards the in_progress -> completed transition. It computes the
// emission level and sets the write-once verdict, or cancels the transition
// when the level is physically nonsensical.
func (t *Test) evaluate(_ context.Context, e *fsm.Event) {
	level := t.vehicle.EmissionLevel()
	if level < 0 {
		e.Cancel(fmt.Errorf("%w: %g for %s", ErrInvalidEmission, level, t.id))
		return
	}
	t.emission = level
	t.compliant = level <= t.legalLimit
}

func (t *Test) announceVerdict(context.Context, *fsm.Event) {
	verdict := "Fail"
	if t.compliant {
		verdict = "Pass"
	}
	t.log.Infof("vehicle %s emission %.2f compliance %s", t.id, t.emission, verdict)
	if t.bus != nil {
		t.bus.Publish(events.TestCompletedEvent{VehicleID: t.id, Emission: t.emission, Compliant: t.compliant})
	}
}
