package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"clipsync/internal/history"
	"clipsync/internal/realign"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		limit   int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past realignment runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOut {
					if runs == nil {
						runs = []history.Run{}
					}
					return writeJSON(cmd, runs)
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded yet")
					return nil
				}
				fmt.Fprintln(out, renderTable(runHeaders, runRows(runs), runAligns))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum runs to list (0 for all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output runs as JSON")

	cmd.AddCommand(newHistoryShowCommand(ctx))
	cmd.AddCommand(newHistoryClipCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOut bool
		all     bool
	)

	cmd := &cobra.Command{
		Use:   "show RUN_ID",
		Short: "Show the clip outcomes of one run (a unique id prefix is enough)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				run, err := store.GetRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				entries, err := store.RunEntries(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, struct {
						*history.Run
						Clips []realign.ClipReport `json:"clips"`
					}{run, entries})
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader("Run "+run.ID, colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintf(out, "Started %s, took %s", run.StartedAt.Local().Format(time.DateTime),
					run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
				if run.InterviewID != "" {
					fmt.Fprintf(out, ", interview %s", run.InterviewID)
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out)
				if rows := clipRows(entries, all); len(rows) > 0 {
					fmt.Fprintln(out, renderTable(clipHeaders, rows, clipAligns))
					fmt.Fprintln(out)
				}
				for _, line := range summaryLines(run.Counts, colorize) {
					fmt.Fprintln(out, line)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output the run as JSON")
	cmd.Flags().BoolVar(&all, "all", false, "List every clip, not only changed and failed ones")
	return cmd
}

func newHistoryClipCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clip CLIP_ID",
		Short: "Show how one clip's times changed across runs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				runs, entries, err := store.ClipHistory(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintf(out, "No runs touched clip %s\n", args[0])
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for i, e := range entries {
					newSpan := ""
					if e.Status == realign.StatusResolved {
						newSpan = formatSpan(e.NewStart, e.NewEnd)
					}
					rows = append(rows, []string{
						shortID(runs[i].ID),
						runs[i].StartedAt.Local().Format(time.DateTime),
						string(e.Status),
						formatSpan(e.OldStart, e.OldEnd),
						newSpan,
					})
				}
				fmt.Fprintln(out, renderTable([]string{"Run", "Started", "Status", "Old", "New"}, rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight}))
				return nil
			})
		},
	}
}

var (
	runHeaders = []string{"Run", "Started", "Interview", "Dry run", "Clips", "Changed", "Unresolved", "Unavailable", "Invalid"}
	runAligns  = []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight}
)

func runRows(runs []history.Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		interview := r.InterviewID
		if interview == "" {
			interview = "all"
		}
		rows = append(rows, []string{
			shortID(r.ID),
			r.StartedAt.Local().Format(time.DateTime),
			interview,
			yesNo(r.DryRun),
			strconv.Itoa(r.Counts.Total),
			strconv.Itoa(r.Counts.Changed),
			strconv.Itoa(r.Counts.Unresolved),
			strconv.Itoa(r.Counts.Unavailable),
			strconv.Itoa(r.Counts.Invalid),
		})
	}
	return rows
}

// shortID trims a run id to its first block, which `history show` accepts.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
