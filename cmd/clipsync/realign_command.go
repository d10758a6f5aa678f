package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"clipsync/internal/clips"
	"clipsync/internal/history"
	"clipsync/internal/logging"
	"clipsync/internal/realign"
)

type realignOptions struct {
	interview string
	dryRun    bool
	workers   int
	jsonOut   bool
	all       bool
}

type realignResult struct {
	*realign.Report
	Counts      realign.Counts `json:"counts"`
	DatasetPath string         `json:"dataset_path"`
	Written     bool           `json:"written"`
	BackupPath  string         `json:"backup_path,omitempty"`
}

func newRealignCommand(ctx *commandContext) *cobra.Command {
	var opts realignOptions

	cmd := &cobra.Command{
		Use:   "realign",
		Short: "Recompute clip start and end times from the transcripts",
		Long: `Realign loads the clip dataset, locates every clip quote in its interview
transcript, and writes the updated times back in one atomic replace.

Clips whose quote cannot be found, or whose transcript is missing, keep their
previous times and are listed in the report.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRealign(cmd, ctx, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.interview, "interview", "i", "", "Only realign clips of this interview")
	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "Report the new times without writing the dataset")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "Concurrent clip resolutions (default from config)")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Output the run report as JSON")
	cmd.Flags().BoolVar(&opts.all, "all", false, "List every clip, not only changed and failed ones")
	return cmd
}

func runRealign(cmd *cobra.Command, ctx *commandContext, opts realignOptions) error {
	resolver, cfg, logger, err := ctx.resolver(opts.workers)
	if err != nil {
		return err
	}
	dryRun := opts.dryRun || cfg.Realign.DryRun
	path := cfg.Paths.ClipsPath

	// A writing run holds the dataset lock from load to save so a concurrent
	// run cannot replace the file underneath it.
	var ds *clips.Dataset
	var handle *clips.Handle
	if dryRun {
		ds, err = clips.Load(path)
	} else {
		handle, err = clips.Lock(path)
		if err != nil {
			return datasetWriteError(logger, path, err)
		}
		defer func() {
			_ = handle.Unlock()
		}()
		ds, err = handle.Load()
	}
	if err != nil {
		return err
	}

	updated, report, err := resolver.Run(cmd.Context(), ds, realign.Filter{InterviewID: strings.TrimSpace(opts.interview)})
	if err != nil {
		return err
	}
	report.DryRun = dryRun

	result := realignResult{Report: report, Counts: report.Counts(), DatasetPath: path}
	if !dryRun {
		if err := handle.Save(updated, clips.SaveOptions{Backup: cfg.Realign.Backup}); err != nil {
			return datasetWriteError(logger, path, err)
		}
		result.Written = true
		if cfg.Realign.Backup {
			result.BackupPath = clips.BackupPath(path)
		}
		logger.Info("dataset written",
			logging.String(logging.FieldEventType, "dataset_written"),
			logging.String("dataset_path", path),
			logging.Int("changed", result.Counts.Changed),
			logging.Bool("backup", cfg.Realign.Backup),
		)

		if cfg.History.Enabled {
			if err := recordHistory(cmd, ctx, report, cfg.History.RetentionDays); err != nil {
				logging.WarnWithContext(logger, "run history not recorded", "history_write_failed",
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check paths.state_dir or delete the history database"),
					logging.String(logging.FieldImpact, "this run is missing from clipsync history"),
				)
			}
		}
	}

	if opts.jsonOut {
		return writeJSON(cmd, result)
	}
	printRealignResult(cmd, result, opts.all)
	return nil
}

func datasetWriteError(logger *slog.Logger, path string, err error) error {
	logging.ErrorWithContext(logger, "dataset not written", "dataset_write_failed",
		logging.Error(err),
		logging.Alert("dataset_write"),
		logging.String("dataset_path", path),
		logging.String(logging.FieldErrorHint, "the previous dataset is untouched; rerun once the cause is fixed"),
	)
	if errors.Is(err, clips.ErrDatasetLocked) {
		return fmt.Errorf("%w: another clipsync run is writing %s", err, path)
	}
	return err
}

func recordHistory(cmd *cobra.Command, ctx *commandContext, report *realign.Report, retentionDays int) error {
	return ctx.withHistory(func(store *history.Store) error {
		if err := store.RecordRun(cmd.Context(), report); err != nil {
			return err
		}
		if retentionDays <= 0 {
			return nil
		}
		_, err := store.Prune(cmd.Context(), time.Now().AddDate(0, 0, -retentionDays))
		return err
	})
}

func printRealignResult(cmd *cobra.Command, result realignResult, all bool) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	title := "Realignment"
	if result.Filter.InterviewID != "" {
		title += " of " + result.Filter.InterviewID
	}
	for _, line := range renderSectionHeader(title, colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "Run %s finished in %s\n\n", result.RunID, result.Duration().Round(time.Millisecond))

	rows := clipRows(result.Clips, all)
	if len(rows) > 0 {
		fmt.Fprintln(out, renderTable(clipHeaders, rows, clipAligns))
		fmt.Fprintln(out)
	}
	for _, line := range summaryLines(result.Counts, colorize) {
		fmt.Fprintln(out, line)
	}

	switch {
	case result.DryRun:
		fmt.Fprintf(out, "\nDry run: %s was not modified\n", result.DatasetPath)
	case result.Written:
		fmt.Fprintf(out, "\nWrote %s", result.DatasetPath)
		if result.BackupPath != "" {
			fmt.Fprintf(out, " (previous version kept at %s)", result.BackupPath)
		}
		fmt.Fprintln(out)
	}
}

var (
	clipHeaders = []string{"Clip", "Interview", "Status", "Outcome", "Old", "New", "Verify"}
	clipAligns  = []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight}
)

// clipRows lists changed and failed clips, or every clip when all is set.
func clipRows(reports []realign.ClipReport, all bool) [][]string {
	var rows [][]string
	for _, c := range reports {
		if !all && c.Status == realign.StatusResolved && !c.Changed() {
			continue
		}
		row := []string{c.ClipID, c.InterviewID, string(c.Status), "", formatSpan(c.OldStart, c.OldEnd), "", ""}
		if c.Status == realign.StatusResolved {
			row[3] = c.Kind.String()
			row[5] = formatSpan(c.NewStart, c.NewEnd)
			row[6] = fmt.Sprintf("%.2f", c.VerifyScore)
		} else {
			row[3] = c.Reason
		}
		rows = append(rows, row)
	}
	return rows
}

func formatSpan(start, end float64) string {
	return fmt.Sprintf("%s-%s", formatTimecode(start), formatTimecode(end))
}

// formatTimecode renders seconds as m:ss.cc, or h:mm:ss.cc past an hour.
func formatTimecode(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	centis := int64(seconds*100 + 0.5)
	h := centis / 360000
	m := (centis / 6000) % 60
	s := (centis / 100) % 60
	cs := centis % 100
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs)
	}
	return fmt.Sprintf("%d:%02d.%02d", m, s, cs)
}
