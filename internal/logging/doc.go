// Package logging assembles the structured slog loggers used by clipsync.
//
// It owns the console and JSON handlers, level parsing, and the per-run log
// file written under log_dir. Context helpers tag lines with run, interview,
// and clip identifiers so a single realignment can be followed end to end,
// and WarnWithContext/DecisionAttrs keep warnings and matcher decisions in a
// consistent shape. NewNop serves tests and wiring code that cannot fail.
package logging
