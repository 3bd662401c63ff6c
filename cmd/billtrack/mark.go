package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"billtrack/internal/errors"
	"billtrack/internal/tracker"
)

// currentMonthFlag is what a bare --sent stands for.
const currentMonthFlag = "current"

func (a *app) markCmd() *cobra.Command {
	var (
		sent     string
		bill     string
		unsent   bool
		clearAll bool
	)

	cmd := &cobra.Command{
		Use:   "mark <file>...",
		Short: "Record the bill month or sent month of files",
		Long: `Record when bills were issued and sent. Paths are relative to the bill folder.

  billtrack mark 2024-01/power.pdf --bill=2024-01 --sent
  billtrack mark 2024-01/*.pdf --sent=2024-02
  billtrack mark 2024-01/power.pdf --unsent`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if sent == currentMonthFlag {
				sent = a.now().Format(tracker.MonthLayout)
			}
			for _, m := range [][2]string{{"bill", bill}, {"sent", sent}} {
				if m[1] == "" {
					continue
				}
				if _, ok := tracker.ParseMonth(m[1]); !ok {
					return errors.NewInvalidInputError(fmt.Sprintf("--%s must be a month (YYYY-MM), got %q", m[0], m[1]), nil)
				}
			}
			if sent == "" && bill == "" && !unsent && !clearAll {
				return errors.NewInvalidInputError("nothing to record; pass --bill, --sent, --unsent or --clear", nil)
			}

			return a.withSession(cmd.Context(), true, func(s *session) error {
				state := s.store.State()
				actions := make([]tracker.Action, 0, len(args))
				var paths []string
				for _, arg := range args {
					f, err := s.file(arg)
					if err != nil {
						return err
					}
					rec := state.TrackingData[f.Path]
					switch {
					case clearAll:
						rec.BillMonth, rec.SentMonth = "", ""
					case unsent:
						rec.SentMonth = ""
					}
					if bill != "" {
						rec.BillMonth = bill
					}
					if sent != "" {
						rec.SentMonth = sent
					}
					actions = append(actions, tracker.UpdateTrackingData{FilePath: f.Path, Data: rec})
					paths = append(paths, f.Path)
				}
				s.store.DispatchAll(actions...)

				now := a.now()
				out := cmd.OutOrStdout()
				after := s.store.State()
				for _, path := range paths {
					rec := after.TrackingData[path]
					fmt.Fprintf(out, "%s %s  bill %s  sent %s\n",
						successText("Marked"), s.relative(path), orDash(rec.BillMonth), orDash(rec.SentMonth))
					if tracker.FileStatus(after, path, now) == tracker.StatusOverdue {
						fmt.Fprintln(out, warningText("  still unsent and overdue"))
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&sent, "sent", "", "month the bill was sent (YYYY-MM); bare --sent uses the current month")
	cmd.Flags().Lookup("sent").NoOptDefVal = currentMonthFlag
	cmd.Flags().StringVar(&bill, "bill", "", "month the bill belongs to (YYYY-MM)")
	cmd.Flags().BoolVar(&unsent, "unsent", false, "clear the sent month")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "clear both months")
	cmd.MarkFlagsMutuallyExclusive("sent", "unsent")
	return cmd
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func (a *app) tagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tag <file> [tag...]",
		Short: "Replace the tags of a file; no tags clears them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), true, func(s *session) error {
				f, err := s.file(args[0])
				if err != nil {
					return err
				}
				s.store.Dispatch(tracker.UpdateTag{FilePath: f.Path, Tags: args[1:]})
				if len(args) == 1 {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", successText("Cleared tags of"), s.relative(f.Path))
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", successText("Tagged"), s.relative(f.Path), strings.Join(args[1:], ", "))
				return nil
			})
		},
	}
}
