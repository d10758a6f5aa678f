// Package logs reads the per-run JSON log files clipsync writes under
// log_dir.
//
// It lists run logs newest first, tails them with bounded memory, follows a
// file that a concurrent run is still writing, and filters entries by the
// standard fields (run, interview, clip, component, level, decision type) so
// `clipsync logs` can answer "what happened to this clip" without grep.
package logs
