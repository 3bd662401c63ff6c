package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	log "billtrack/internal/log"
	"billtrack/internal/scan"
)

// run drives the daemon and the syncer until ctx is cancelled.
func (s *session) run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.daemon.Run(ctx) })
	g.Go(func() error { return s.syncer.Run(ctx) })
	return g.Wait()
}

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep the ledger up to date while files change",
		Long:  `Watch the bill folder and rescan whenever files are added, moved or removed. Stop with Ctrl+C.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.withSession(ctx, false, func(s *session) error {
				out := cmd.OutOrStdout()
				s.daemon.SetCallback(func(res *scan.Result, err error) {
					if err != nil {
						log.LogWithError(err).Error("Rescan failed")
						return
					}
					st := s.store.State().Statistics
					fmt.Fprintf(out, "%s %d files, %d pending, %d overdue\n",
						infoText(res.ScannedAt.Format("15:04:05")), len(res.Files), st.PendingFiles, st.OverdueFiles)
				})
				fmt.Fprintln(out, infoText("Watching "+s.folder+" (Ctrl+C to stop)"))
				return s.run(ctx)
			})
		},
	}
}
