package main

import (
	"context"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	log "billtrack/internal/log"
	"billtrack/internal/report"
	"billtrack/internal/tracker"
	"billtrack/internal/tui"
)

func (a *app) tuiCmd() *cobra.Command {
	var (
		watch     bool
		reportDir string
	)

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive bill tracker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.screenLogging()
			defer a.configureLogging(cmd)

			return a.withSession(cmd.Context(), true, func(s *session) error {
				ctx, cancel := context.WithCancel(cmd.Context())
				defer cancel()

				done := make(chan error, 1)
				go func() {
					if watch || s.cfg.Watch.Enabled {
						done <- s.run(ctx)
						return
					}
					done <- s.syncer.Run(ctx)
				}()

				model := tui.New(s.store, tui.Options{
					Theme: s.cfg.Theme,
					Now:   a.now,
					Report: func(state tracker.State) (string, error) {
						now := a.now()
						path := filepath.Join(reportDir, reportName(now.Format(tracker.MonthLayout)))
						return path, report.WriteXLSX(path, state, now)
					},
				})
				defer model.Close()

				_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
				cancel()
				if bgErr := <-done; bgErr != nil {
					log.LogWithError(bgErr).Error("Background sync stopped")
				}
				return err
			})
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "rescan while files change")
	cmd.Flags().StringVar(&reportDir, "report-dir", ".", "where the report key writes workbooks")
	return cmd
}
