package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"clipsync/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		lines  int
		follow bool
		list   bool
		file   string
		query  logs.Query
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the JSON log of the latest run, filtered by clip, interview, or level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if list {
				files, err := logs.List(cfg.Paths.LogDir)
				if err != nil {
					return err
				}
				if len(files) == 0 {
					fmt.Fprintln(out, "No run logs")
					return nil
				}
				rows := make([][]string, 0, len(files))
				for _, f := range files {
					rows = append(rows, []string{filepath.Base(f.Path), f.ModTime.Local().Format(time.DateTime), fmt.Sprintf("%d", f.Size)})
				}
				fmt.Fprintln(out, renderTable([]string{"File", "Modified", "Bytes"}, rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight}))
				return nil
			}

			path := strings.TrimSpace(file)
			switch {
			case path == "":
				if path, err = logs.Latest(cfg.Paths.LogDir); err != nil {
					return err
				}
			case !filepath.IsAbs(path):
				path = filepath.Join(cfg.Paths.LogDir, path)
			}

			tail, offset, err := logs.Tail(path, lines, query)
			if err != nil {
				return err
			}
			for _, line := range tail {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}
			return logs.Follow(cmd.Context(), path, offset, query, func(line string) {
				fmt.Fprintln(out, line)
			})
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Trailing lines to show (0 for all)")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing lines as they are written")
	cmd.Flags().BoolVar(&list, "list", false, "List run log files instead of printing one")
	cmd.Flags().StringVar(&file, "file", "", "Log file to read (default: newest run log)")
	cmd.Flags().StringVar(&query.RunID, "run", "", "Only entries of this run id")
	cmd.Flags().StringVarP(&query.InterviewID, "interview", "i", "", "Only entries for this interview")
	cmd.Flags().StringVar(&query.ClipID, "clip", "", "Only entries for this clip")
	cmd.Flags().StringVar(&query.Component, "component", "", "Only entries from this component")
	cmd.Flags().StringVar(&query.Level, "level", "", "Only entries at this level (debug, info, warn, error)")
	cmd.Flags().StringVar(&query.DecisionType, "decision", "", "Only entries recording this decision type")
	cmd.Flags().StringVarP(&query.Search, "search", "s", "", "Only entries containing this text")
	return cmd
}
