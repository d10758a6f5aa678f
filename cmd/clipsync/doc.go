// Package main hosts the clipsync CLI entrypoint and command graph.
//
// The Cobra-based command tree loads configuration once, builds the logger,
// and hands the heavy lifting to the internal packages: realign drives the
// batch resolver and the atomic dataset write, locate resolves one ad-hoc
// quote, history reads past runs from SQLite, and doctor runs the preflight
// checks. Commands that print reports accept --json for scripting.
//
// Keep this package lean: add behavior to the internal packages first, then
// surface it through a command or flag here.
package main
