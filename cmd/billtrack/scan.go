package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func (a *app) scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Index the bill folder",
		Long:  `Walk the bill folder, record its subfolders and files, and print a summary.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), false, func(s *session) error {
				res, err := s.rescan(cmd.Context())
				if err != nil {
					return err
				}
				st := s.store.State().Statistics
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, successText(fmt.Sprintf("Scanned %s: %d files in %d subfolders", res.Root, len(res.Files), len(res.Subfolders))))
				fmt.Fprintf(out, "Tracked %d  Sent %d  Pending %d  Overdue %d  Untracked %d  (%s)\n",
					st.TrackedFiles, st.SentFiles, st.PendingFiles, st.OverdueFiles, st.UntrackedFiles, humanize.Bytes(uint64(st.TotalSize)))
				return nil
			})
		},
	}
}
