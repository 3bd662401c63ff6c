package main

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"billtrack/internal/errors"
	"billtrack/internal/tracker"
)

var (
	statusFilters = []string{tracker.FilterAll, tracker.StatusTracked, tracker.StatusUntracked, tracker.StatusPending, tracker.StatusOverdue, tracker.StatusSent}
	sortKeys      = []string{tracker.SortByName, tracker.SortByModified, tracker.SortBySize, tracker.SortByCreated, tracker.SortByBillMonth}
)

// fileRow is one line of `status --json`.
type fileRow struct {
	Path      string   `json:"path"`
	Name      string   `json:"name"`
	Status    string   `json:"status"`
	BillMonth string   `json:"billMonth,omitempty"`
	SentMonth string   `json:"sentMonth,omitempty"`
	Size      int64    `json:"size"`
	Tags      []string `json:"tags,omitempty"`
}

type viewFlags struct {
	filter   string
	fileType string
	search   string
	sortBy   string
	desc     bool
}

func (v *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&v.filter, "filter", tracker.FilterAll, "status filter: "+strings.Join(statusFilters, ", "))
	cmd.Flags().StringVar(&v.fileType, "type", tracker.FilterAll, "only files with this extension")
	cmd.Flags().StringVar(&v.search, "search", "", "only files whose name or folder contains this text")
	cmd.Flags().StringVar(&v.sortBy, "sort", tracker.SortByName, "sort key: "+strings.Join(sortKeys, ", "))
	cmd.Flags().BoolVar(&v.desc, "desc", false, "sort descending")
}

// actions validates the flags and returns the view actions they stand for.
func (v *viewFlags) actions() ([]tracker.Action, error) {
	if !slices.Contains(statusFilters, v.filter) {
		return nil, errors.NewInvalidInputError("unknown status filter", nil).WithContext("filter", v.filter)
	}
	if !slices.Contains(sortKeys, v.sortBy) {
		return nil, errors.NewInvalidInputError("unknown sort key", nil).WithContext("sort", v.sortBy)
	}
	order := tracker.SortAsc
	if v.desc {
		order = tracker.SortDesc
	}
	return []tracker.Action{
		tracker.SetStatusFilter{Filter: v.filter},
		tracker.SetFileTypeFilter{Filter: strings.TrimPrefix(v.fileType, ".")},
		tracker.SetSearchTerm{Term: v.search},
		tracker.SetSortBy{Key: v.sortBy},
		tracker.SetSortOrder{Order: order},
	}, nil
}

func (a *app) statusCmd() *cobra.Command {
	var (
		view   viewFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "List bills and whether they were sent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			actions, err := view.actions()
			if err != nil {
				return err
			}
			return a.withSession(cmd.Context(), true, func(s *session) error {
				s.store.DispatchAll(actions...)
				state := s.store.State()
				now := a.now()

				var rows []fileRow
				for _, f := range tracker.VisibleFiles(state, now) {
					rec := state.TrackingData[f.Path]
					rows = append(rows, fileRow{
						Path:      f.Path,
						Name:      f.Name,
						Status:    tracker.FileStatus(state, f.Path, now),
						BillMonth: rec.BillMonth,
						SentMonth: rec.SentMonth,
						Size:      f.Size,
						Tags:      state.Tags[f.Path],
					})
				}

				out := cmd.OutOrStdout()
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					if rows == nil {
						rows = []fileRow{}
					}
					return enc.Encode(rows)
				}

				if len(rows) == 0 {
					fmt.Fprintln(out, infoText("No files match."))
					return nil
				}
				table := make([][]string, 0, len(rows))
				for _, r := range rows {
					table = append(table, []string{
						s.relative(r.Path),
						strings.ToUpper(r.Status),
						r.BillMonth,
						r.SentMonth,
						humanize.Bytes(uint64(r.Size)),
						strings.Join(r.Tags, ", "),
					})
				}
				fmt.Fprintln(out, renderTable([]string{"File", "Status", "Bill", "Sent", "Size", "Tags"}, table))
				fmt.Fprintf(out, "%d of %d files\n", len(rows), len(state.AllFiles))
				return nil
			})
		},
	}

	view.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}
