// Package engine drives the per-turn chat orchestration pipeline:
// judgment over the attribute masters, context assembly, response
// generation, and extraction of new attribute values, in that order.
//
// # Overview
//
// A turn is an explicit state machine
//
//	Idle → Judging(0..N-1) → Generating → Extracting(0..N-1) → Done
//
// with Failed reachable from any state on a fatal error. Progress is
// exposed as a pull-based stream of task statuses: the caller pulls
// each element with TurnStream.Next, the engine performs no work ahead
// of a pull, and at most one capability or repository call is ever in
// flight. Each sub-task costs two pulls — the first emits its
// "processing" status strictly before the underlying call starts, the
// second performs the call and emits the terminal status strictly
// after it returns. No other sub-task's status is ever emitted in
// between, which is the ordering a UI relies on for live display.
//
// # Failure policy
//
// Judgment and extraction failures are non-fatal: the attribute is
// skipped, a "failed" status is emitted for observability, and the
// loop continues. A generation failure is fatal for the turn: the
// stream terminates and Result returns the error. Failures never cross
// the engine boundary as panics or untyped faults; a turn always ends
// in either a complete ChatResponse or an explicit error from Result.
//
// # Concurrency
//
// Everything runs in the caller's goroutine. The engine holds no state
// across suspension points besides the context accumulator and loop
// index, so no locking is needed inside a turn. At most one turn may
// be active per session; Engine.Stream enforces this with an atomic
// guard and returns ErrTurnActive on violation.
package engine
