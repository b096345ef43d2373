// Package diag defines the diagnostic model shared by the conversion passes.
//
// A Diagnostic carries a Severity, a compact numeric Code with a stable string
// form (CNV, IO and OBS ranges, see codes.go), a short message, the primary
// source.Span and optional notes. Notes should add context ("declared here")
// rather than repeat the message.
//
// Passes emit through a Reporter so they stay decoupled from storage. The
// converter builds diagnostics with ReportError/ReportWarning and Emit; the
// driver gives every unit its own Bag through BagReporter, wraps it in a
// DedupReporter, and merges the bags in unit order once all units finish.
// Bag.Sort yields the deterministic order used for output and caching.
//
// Rendering is limited to FormatLines, a stable one-line-per-entry form used
// by the CLI and by tests.
package diag
