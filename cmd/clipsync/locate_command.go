package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"clipsync/internal/align"
)

func newLocateCommand(ctx *commandContext) *cobra.Command {
	var (
		interview string
		quote     string
		jsonOut   bool
	)

	cmd := &cobra.Command{
		Use:   "locate --interview ID [--quote TEXT | TEXT]",
		Short: "Find a quote in an interview transcript without touching the dataset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if strings.TrimSpace(quote) != "" {
					return errors.New("pass the quote either as --quote or as an argument, not both")
				}
				quote = args[0]
			}
			interview = strings.TrimSpace(interview)
			if interview == "" {
				return errors.New("--interview is required")
			}
			if strings.TrimSpace(quote) == "" {
				return errors.New("a quote is required")
			}

			resolver, _, _, err := ctx.resolver(1)
			if err != nil {
				return err
			}
			res, err := resolver.Locate(cmd.Context(), interview, quote)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, res)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintln(out, renderStatusLine("Transcript", statusInfo, res.Transcript, colorize))
			start, end := align.ExtractAnchors(quote)
			fmt.Fprintln(out, renderStatusLine("Start anchor", statusInfo, strings.Join(start, " "), colorize))
			fmt.Fprintln(out, renderStatusLine("End anchor", statusInfo, strings.Join(end, " "), colorize))

			span, ok := res.Outcome.Result()
			if !ok {
				fmt.Fprintln(out, renderStatusLine("Outcome", statusError, res.Reason, colorize))
				return nil
			}
			kind := statusOK
			if res.Outcome.Kind != align.Matched {
				kind = statusWarn
			}
			fmt.Fprintln(out, renderStatusLine("Outcome", kind, res.Outcome.Kind.String(), colorize))
			fmt.Fprintln(out, renderStatusLine("Span", statusInfo,
				fmt.Sprintf("%s (%.2fs, %.2fs-%.2fs)", formatSpan(span.Start, span.End), span.Duration(), span.Start, span.End), colorize))
			fmt.Fprintln(out, renderStatusLine("Scores", statusInfo,
				fmt.Sprintf("start %.3f, end %.3f, verify %.3f", res.Outcome.Start.Score, res.Outcome.End.Score, res.VerifyScore), colorize))
			fmt.Fprintln(out, renderStatusLine("Excerpt", statusInfo, res.Excerpt, colorize))
			return nil
		},
	}

	cmd.Flags().StringVarP(&interview, "interview", "i", "", "Interview whose transcript is searched")
	cmd.Flags().StringVarP(&quote, "quote", "q", "", "Quote to locate")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output the lookup as JSON")
	return cmd
}
