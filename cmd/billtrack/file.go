package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"billtrack/internal/errors"
	"billtrack/internal/organize"
	"billtrack/internal/tracker"
)

func (a *app) fileCmd() *cobra.Command {
	var (
		month     string
		to        string
		dryRun    bool
		collision string
	)

	cmd := &cobra.Command{
		Use:   "file",
		Short: "Move sent bills into the submitted folder",
		Long: `Move every sent bill into the submitted folder, one subfolder per bill
month. Tracking data and tags follow the bills to their new place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if month != "" {
				if _, ok := tracker.ParseMonth(month); !ok {
					return errors.NewInvalidInputError(fmt.Sprintf("--month must be a month (YYYY-MM), got %q", month), nil)
				}
			}
			return a.withSession(cmd.Context(), true, func(s *session) error {
				dest := to
				if dest == "" {
					dest = s.store.State().GSTSubmittedFolder
				}
				if dest != "" {
					dest = s.resolve(dest)
				}
				if collision == "" {
					collision = s.cfg.Filing.Collision
				}
				engine, err := organize.New(organize.Options{
					Destination: dest,
					Collision:   collision,
					Backup:      s.cfg.Filing.Backup,
					DryRun:      dryRun,
				})
				if err != nil {
					return err
				}

				moves, err := engine.File(cmd.Context(), s.store, month)
				out := cmd.OutOrStdout()
				verb := "Filed"
				if dryRun {
					verb = "Would file"
				}
				for _, m := range moves {
					if m.Skipped {
						fmt.Fprintf(out, "%s %s (destination exists)\n", warningText("Skipped"), s.relative(m.From))
						continue
					}
					fmt.Fprintf(out, "%s %s -> %s\n", successText(verb), s.relative(m.From), m.To)
				}
				if len(moves) == 0 {
					fmt.Fprintln(out, infoText("Nothing to file."))
				}
				if err != nil {
					return err
				}
				if !dryRun && len(moves) > 0 {
					_, err = s.rescan(cmd.Context())
				}
				return err
			})
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "only bills of this bill month (YYYY-MM)")
	cmd.Flags().StringVar(&to, "to", "", "submitted folder (default tracker.gst_submitted_folder)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "print the moves without making them")
	cmd.Flags().StringVar(&collision, "collision", "", "when the destination exists: rename, skip or overwrite")
	return cmd
}
