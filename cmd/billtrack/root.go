package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"billtrack/internal/config"
	log "billtrack/internal/log"
)

// app holds what the root command resolves before any subcommand runs.
type app struct {
	cfgFile string
	folder  string
	debug   bool

	cfg *config.Config
	now func() time.Time
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{now: time.Now}

	rootCmd := &cobra.Command{
		Use:   "billtrack",
		Short: "Track which bills have been sent",
		Long: `billtrack keeps a ledger of the bills in a folder: which month each bill
belongs to, which month it was sent, and which ones are overdue.

Run 'billtrack scan' to index a folder, 'billtrack mark' to record bills,
or 'billtrack tui' for the interactive view.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var configErr error
			if a.cfgFile != "" {
				a.cfg, configErr = config.LoadConfigFile(a.cfgFile)
			} else {
				a.cfg, configErr = config.LoadConfig()
			}
			if configErr != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), warningText(fmt.Sprintf("Warning: %v", configErr)))
				fmt.Fprintln(cmd.ErrOrStderr(), infoText("Using default settings. Run 'billtrack config init' to create a config file."))
				a.cfg = config.New()
			}
			if a.folder != "" {
				a.cfg.Tracker.Folder = a.folder
			}
			colors = paletteFrom(a.cfg.Theme)
			a.configureLogging(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.config/billtrack/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.folder, "folder", "", "bill folder to track (overrides tracker.folder)")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(a.scanCmd())
	rootCmd.AddCommand(a.statusCmd())
	rootCmd.AddCommand(a.markCmd())
	rootCmd.AddCommand(a.ignoreCmd())
	rootCmd.AddCommand(a.foldersCmd())
	rootCmd.AddCommand(a.tagCmd())
	rootCmd.AddCommand(a.fileCmd())
	rootCmd.AddCommand(a.reportCmd())
	rootCmd.AddCommand(a.watchCmd())
	rootCmd.AddCommand(a.tuiCmd())
	rootCmd.AddCommand(a.configCmd())

	return rootCmd
}

func (a *app) configureLogging(cmd *cobra.Command) {
	a.applyLogging(cmd.ErrOrStderr(), a.cfg.Logging.File)
}

// screenLogging keeps log lines off a terminal owned by a full-screen
// program. They go to the configured log file, or billtrack.log in the
// config directory. It returns the file used.
func (a *app) screenLogging() string {
	file := a.cfg.Logging.File
	if file == "" {
		if dir, err := config.Dir(); err == nil {
			file = filepath.Join(dir, "billtrack.log")
		}
	}
	a.applyLogging(io.Discard, file)
	return file
}

func (a *app) applyLogging(w io.Writer, file string) {
	opts := []log.Option{log.WithOutput(w)}
	if a.cfg.Logging.JSON {
		opts = append(opts, log.WithJSON())
	}
	if file != "" {
		opts = append(opts, log.WithFile(file))
	}
	log.Configure(opts...)
	log.SetDebug(a.debug || strings.EqualFold(a.cfg.Logging.Level, "debug"))
}
