// Package trace records what the converter is doing and how long it takes.
//
// Enable tracing from the command line:
//
//	treeconv convert --trace=- --trace-level=detail doc.json
//
// Implementations: Nop (disabled), StreamTracer (immediate write to a file or
// stderr), RingTracer (last N events in memory, dumped when a conversion
// fails) and MultiTracer (fan-out). Output is text, or NDJSON when the trace
// file ends in .ndjson or .jsonl.
//
// Scopes nest driver > pass > unit > node, and Level decides how deep events
// go: phase emits driver and pass events, detail adds units, debug adds every
// converted statement.
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span, ctx := trace.Start(ctx, trace.ScopeUnit, "unit:"+name)
//	defer span.End("")
package trace
