// Package trace provides the tracing subsystem of xmlsort.
//
// Tracing records the batch run, every file and the phases inside it
// (read, decode, format, encode, backup, write) to find slow files and
// to see what a parallel run actually did.
//
// # Usage
//
//	xmlsort --trace=- --trace-level=phase config/*.xml
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelError: Only failed files
//   - LevelPhase: Batch and per-file spans
//   - LevelDetail: Per-phase spans inside a file
//   - LevelDebug: Everything
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeFile, path, parentID)
//	defer span.End("")
package trace
