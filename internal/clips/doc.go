// Package clips models the curated clip dataset: the ordered collection of
// interview excerpts whose start and end times the realigner maintains.
//
// A Dataset is an arena keyed by clip id that preserves file order. Load and
// Save read and write it as JSON or YAML (chosen by file extension). Lock
// returns a Handle holding an exclusive lock beside the file for a whole
// load-and-save cycle; saves replace the file atomically so a crashed run
// never leaves a half-written dataset.
//
// Only a missing or duplicate clip id makes a dataset unusable. Other field
// problems are reported per clip by Clip.Validate.
package clips
