// Package diag defines the error and diagnostic model shared by the formatter.
//
// # Data model
//
// Diagnostic is a positioned finding produced by the lexer or the
// well-formedness check:
//
//   - Severity – Info, Warning, Error (severity.go).
//   - Code – numeric identifier with a stable string form (codes.go).
//   - Message – short, actionable text.
//   - Primary – the source.Span pointing at the issue.
//
// Producers emit through Reporter; BagReporter collects into a Bag.
//
// Error is the per-file failure record handed from the driver to the CLI. Its
// Kind is one of FileNotFound, DecodeError, ParseError, SerializationError,
// BackupError or WriteError. BackupError carries warning severity: the file is
// still written. All other kinds abandon the file and leave it untouched.
//
// Package diag does no IO and no rendering.
package diag
