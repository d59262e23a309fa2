// Package compliance implements the core logic of an emission compliance
// test campaign.
//
// Each vehicle is tested by a Test, a small state machine driven from
// pending through in_progress to completed. The verdict is computed exactly
// once during the final transition: a vehicle passes when its emission level
// does not exceed the legal limit. A strategy returning a negative level is
// rejected as physically nonsensical and leaves the test unfinished.
//
// Key components:
//   - Test: the per-vehicle state machine producing the verdict.
//   - Runner: runs one test per vehicle concurrently and joins them all.
//   - Registry: the shared, mutex-guarded store of final verdicts.
//
// Failures are isolated per vehicle: a failing test is reported for its
// identifier, leaves no registry entry and never affects sibling tests.
//
// Usage example:
//
//	runner := compliance.NewRunner(log, bus, sink)
//	registry, err := runner.RunAll(ctx, vehicles, 180)
//	if err != nil {
//	        log.Fatalf("campaign aborted: %v", err)
//	}
//	for _, e := range registry.List() {
//	        fmt.Println(e.VehicleID, e.Compliant)
//	}
package compliance
