package preflight

import (
	"context"

	"clipsync/internal/config"
	"clipsync/internal/transcript"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	// Advisory results are reported but never block a run.
	Advisory bool   `json:"advisory,omitempty"`
	Detail   string `json:"detail"`
}

// RunAll executes every preflight check for cfg. Dataset-dependent checks are
// skipped when the dataset cannot be loaded.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results,
		CheckDirectoryAccess("Transcripts directory", cfg.Paths.TranscriptsDir, ReadOnly),
		CheckDirectoryAccess("Dataset directory", cfg.DatasetDir(), ReadWrite),
		CheckCreatableDirectory("State directory", cfg.Paths.StateDir),
	)

	datasetResult, ds := CheckDataset(cfg.Paths.ClipsPath)
	results = append(results, datasetResult)
	if ds != nil {
		source := transcript.NewFileSource(cfg.Paths.TranscriptsDir, cfg.TranscriptFormats())
		results = append(results, CheckTranscripts(ctx, source, ds))
	}

	if cfg.History.Enabled {
		results = append(results, CheckHistory(cfg.HistoryPath()))
	}

	return results
}

// Blocking returns the failed results that are not advisory.
func Blocking(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed && !r.Advisory {
			out = append(out, r)
		}
	}
	return out
}
