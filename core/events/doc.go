// Package events defines the test related events emitted on the event bus.
//
// Available event types:
//   - TestStartedEvent: a test left the pending state
//   - TestCompletedEvent: final verdict for a vehicle
//   - TestFailedEvent: a test failed before completion
package events
