package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clipsync/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that transcripts, the dataset, and state directories are usable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg)
			blocking := preflight.Blocking(results)

			if jsonOut {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader("clipsync doctor", colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, renderStatusLine("Config", statusInfo, ctx.configPath, colorize))
				for _, line := range preflightLines(results, colorize) {
					fmt.Fprintln(out, line)
				}
			}

			if len(blocking) > 0 {
				return fmt.Errorf("%d check(s) failed", len(blocking))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output check results as JSON")
	return cmd
}
