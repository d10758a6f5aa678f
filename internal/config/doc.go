// Package config loads, normalizes, and validates clipsync configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the CLIPSYNC_TRANSCRIPTS_DIR and
// CLIPSYNC_CLIPS_PATH environment fallbacks. The Config type centralizes every
// knob the CLI needs: where transcripts and the clip dataset live, how the
// realigner runs, and where logs and run history are kept.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical log formats, and clear validation errors.
package config
