package events

import "github.com/kilianp07/emitest/core/model"

// TestStartedEvent is published when a test leaves the pending state.
type TestStartedEvent struct {
	VehicleID string
	Category  model.Category
}

// TestCompletedEvent is published once a test reaches the completed state
// with its final verdict.
type TestCompletedEvent struct {
	VehicleID string
	Emission  float64
	Compliant bool
}

// TestFailedEvent is published when a test execution fails before reaching
// the completed state.
type TestFailedEvent struct {
	VehicleID string
	Err       error
}
