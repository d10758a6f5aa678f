// Package realign recomputes clip start and end times against the current
// interview transcripts.
//
// A Resolver groups clips by interview, loads each interview's transcript
// once, resolves every clip on a bounded worker pool, and applies the results
// to a copy of the dataset. Per-clip and per-interview failures become Report
// entries; they never abort the rest of the run.
package realign
