// Package trace records what the diagnostic pipeline does while it runs.
//
// Events are grouped into spans (begin/end pairs) and instant points. The
// report pipeline opens one span per stage so a slow or crashing run shows
// where it stopped.
//
// # Usage
//
//	prettydebug frames --trace=- --trace-level=stage trail.txt
//
// # Tracers
//
//   - Nop: disabled tracing, no overhead
//   - StreamTracer: writes each event as it happens
//   - RingTracer: keeps the last N events for a crash dump
//   - MultiTracer: fans out to several tracers
//
// # Levels
//
//   - LevelOff: nothing
//   - LevelError: stage boundaries, kept only for the crash dump
//   - LevelStage: command and stage boundaries
//   - LevelDetail: per-input events
//   - LevelDebug: everything including single frames
//
// # Context
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopeCommand, "frames")
//	defer span.End("")
//
// Spans below the tracer's level are muted: they emit nothing, and their
// children attach to the nearest emitted ancestor. Spans opened under an
// input (BeginInput) tag every event with the input name.
package trace
