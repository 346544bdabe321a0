// Package trace is the logging facility of mofix.
//
// Fix runs are traced as nested spans (driver → round → file) plus point
// events for single edits. A tracer travels through the call chain via
// context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeRound, "round", trace.CurrentSpan(ctx))
//	defer span.End("")
//
// # Levels
//
//   - LevelOff: nothing
//   - LevelError: only problem reports (count mismatches, failed checks)
//   - LevelPhase: driver and round boundaries
//   - LevelDetail: per-file work
//   - LevelDebug: everything, including skipped overlapping edits
//
// # Tracers
//
//   - Nop: zero-overhead default
//   - StreamTracer: immediate write (text or NDJSON) to a file or stderr
//   - RingTracer: last N events in memory, used by tests and crash dumps
//   - MultiTracer: fan-out
//
// Enable from the command line:
//
//	mofix fix --trace=- --trace-level=detail src/Main.mo
package trace
