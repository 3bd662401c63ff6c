package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"billtrack/internal/tracker"
)

func (a *app) ignoreCmd() *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "ignore <file-or-subfolder>...",
		Short: "Leave files or whole subfolders out of tracking",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), true, func(s *session) error {
				state := s.store.State()
				files, folders := state.IgnoredFiles, state.IgnoredSubfolders
				for _, arg := range args {
					if sub, err := s.subfolder(arg); err == nil {
						folders = setMember(folders, sub.Path, !remove)
						continue
					}
					f, err := s.file(arg)
					if err != nil {
						return err
					}
					files = setMember(files, f.Path, !remove)
				}
				s.store.DispatchAll(
					tracker.SetIgnoredFiles{Paths: files},
					tracker.SetIgnoredSubfolders{Paths: folders},
				)

				verb := "Ignoring"
				if remove {
					verb = "Tracking again"
				}
				for _, arg := range args {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", successText(verb), s.relative(s.resolve(arg)))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&remove, "remove", false, "stop ignoring the given paths")
	return cmd
}

func (a *app) foldersCmd() *cobra.Command {
	var (
		sel      []string
		deselect []string
		all      bool
		none     bool
	)

	cmd := &cobra.Command{
		Use:   "folders",
		Short: "List subfolders and choose which ones are in scope",
		Long: `List the subfolders of the bill folder. When some are selected, only
their files are tracked; when none are, every subfolder is.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), true, func(s *session) error {
				switch {
				case all:
					s.store.Dispatch(tracker.SelectAllSubfolders{})
				case none:
					s.store.Dispatch(tracker.DeselectAllSubfolders{})
				}
				selected := s.store.State().SelectedSubfolders
				for _, p := range sel {
					sub, err := s.subfolder(p)
					if err != nil {
						return err
					}
					selected = selected.With(sub.Path)
				}
				for _, p := range deselect {
					sub, err := s.subfolder(p)
					if err != nil {
						return err
					}
					selected = selected.Without(sub.Path)
				}
				if len(sel)+len(deselect) > 0 {
					s.store.Dispatch(tracker.SetSelectedSubfolders{Paths: selected})
				}

				state := s.store.State()
				rows := make([][]string, 0, len(state.Subfolders))
				for _, sub := range state.Subfolders {
					mark := ""
					switch {
					case state.IgnoredSubfolders.Has(sub.Path):
						mark = "ignored"
					case state.SelectedSubfolders.Has(sub.Path):
						mark = "selected"
					}
					rows = append(rows, []string{s.relative(sub.Path), fmt.Sprint(sub.FileCount), mark})
				}
				out := cmd.OutOrStdout()
				if len(rows) == 0 {
					fmt.Fprintln(out, infoText("No subfolders."))
					return nil
				}
				fmt.Fprintln(out, renderTable([]string{"Subfolder", "Files", ""}, rows))
				if state.SelectedSubfolders.Len() == 0 {
					fmt.Fprintln(out, infoText("All subfolders in scope"))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&sel, "select", nil, "subfolders to add to the selection")
	cmd.Flags().StringSliceVar(&deselect, "deselect", nil, "subfolders to remove from the selection")
	cmd.Flags().BoolVar(&all, "all", false, "select every subfolder")
	cmd.Flags().BoolVar(&none, "none", false, "clear the selection")
	cmd.MarkFlagsMutuallyExclusive("all", "none")
	return cmd
}

func setMember(set tracker.PathSet, path string, member bool) tracker.PathSet {
	if member {
		return set.With(path)
	}
	return set.Without(path)
}
