package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"billtrack/internal/report"
	"billtrack/internal/tracker"
)

// reportName is the default file name of a report written in month.
func reportName(month string) string {
	return fmt.Sprintf("billtrack-%s.xlsx", month)
}

func (a *app) reportCmd() *cobra.Command {
	var (
		out  string
		view viewFlags
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export the bills to an Excel workbook",
		Long: `Write a workbook with one row per bill matching the filters and a summary
sheet covering every tracked file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			actions, err := view.actions()
			if err != nil {
				return err
			}
			return a.withSession(cmd.Context(), true, func(s *session) error {
				s.store.DispatchAll(actions...)
				now := a.now()
				path := out
				if path == "" {
					path = reportName(now.Format(tracker.MonthLayout))
				}
				if err := report.WriteXLSX(path, s.store.State(), now); err != nil {
					return err
				}
				if abs, err := filepath.Abs(path); err == nil {
					path = abs
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", successText("Report written to"), path)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default billtrack-YYYY-MM.xlsx)")
	view.register(cmd)
	return cmd
}
