// Package preflight provides readiness checks for the filesystem paths and
// data files clipsync depends on.
//
// The CLI "clipsync doctor" command runs RunAll and prints every result;
// "clipsync realign" runs the same checks first and refuses to start when a
// required one fails, so a long run never dies on a missing directory.
package preflight
