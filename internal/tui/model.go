package tui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"billtrack/internal/config"
	log "billtrack/internal/log"
	"billtrack/internal/stats"
	"billtrack/internal/tracker"
	"billtrack/internal/tui/common"
	"billtrack/internal/tui/components"
	"billtrack/internal/tui/messages"
	"billtrack/internal/tui/styles"
	"billtrack/internal/tui/views"
)

// Lines taken by everything around the file list.
const chromeLines = 9

var (
	statusCycle = []string{tracker.FilterAll, tracker.StatusUntracked, tracker.StatusPending, tracker.StatusOverdue, tracker.StatusSent, tracker.StatusTracked}
	sortCycle   = []string{tracker.SortByName, tracker.SortByModified, tracker.SortBySize, tracker.SortByCreated, tracker.SortByBillMonth}
)

// Options configures a Model.
type Options struct {
	Theme config.Theme
	// Now is the clock used for statuses and the default month.
	Now func() time.Time
	// Report exports the state and returns where it was written. The
	// report key is disabled when nil.
	Report func(tracker.State) (string, error)
}

// Model is the bubbletea model of the tracker. It renders the store's state
// and turns key presses into dispatched actions.
type Model struct {
	store       *tracker.Store
	updates     chan tracker.State
	unsubscribe func()

	state        tracker.State
	files        []tracker.FileEntry
	cursor       int
	folderCursor int

	mode     common.Mode
	input    textinput.Model
	keys     KeyMap
	help     help.Model
	showHelp bool
	status   *components.StatusBar
	styles   styles.Styles

	width  int
	height int
	now    func() time.Time
	report func(tracker.State) (string, error)
}

// New creates a model bound to store. Call Close when the program exits.
func New(store *tracker.Store, opts Options) *Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Theme.Primary == "" {
		opts.Theme = config.New().Theme
	}

	ti := textinput.New()
	ti.CharLimit = 100
	ti.Width = 30

	st := styles.FromTheme(opts.Theme)
	m := &Model{
		store:   store,
		updates: make(chan tracker.State, 1),
		input:   ti,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		status:  components.NewStatusBar(st),
		styles:  st,
		now:     opts.Now,
		report:  opts.Report,
	}
	m.unsubscribe = store.Subscribe(m.publish)
	m.sync(store.State())
	return m
}

// publish hands the newest state to the program, dropping any state the
// program has not picked up yet.
func (m *Model) publish(s tracker.State) {
	select {
	case m.updates <- s:
		return
	default:
	}
	select {
	case <-m.updates:
	default:
	}
	select {
	case m.updates <- s:
	default:
	}
}

func (m *Model) waitForState() tea.Cmd {
	return func() tea.Msg {
		return messages.StateChangedMsg{State: <-m.updates}
	}
}

// Close detaches the model from the store.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return m.waitForState()
}

// View implements tea.Model
func (m *Model) View() string {
	return views.RenderMainView(m, m.styles)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.StateChangedMsg:
		m.sync(msg.State)
		return m, m.waitForState()
	case messages.ReportWrittenMsg:
		if msg.Error != nil {
			m.status.SetError(msg.Error)
		} else {
			m.status.SetText("Report written to " + msg.Path)
		}
		return m, nil
	case messages.ErrorMsg:
		m.status.SetError(msg.Err)
		return m, nil
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.scroll()
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case common.Search, common.BillMonth:
			return m.handleInputKeys(msg)
		case common.Folders:
			return m.handleFolderKeys(msg)
		default:
			return m.handleNormalKeys(msg)
		}
	}
	return m, m.status.Update(msg)
}

func (m *Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.state

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.pageRows())
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.pageRows())
	case key.Matches(msg, m.keys.GotoTop):
		m.moveCursor(-len(m.files))
	case key.Matches(msg, m.keys.GotoEnd):
		m.moveCursor(len(m.files))

	case key.Matches(msg, m.keys.Select):
		if f, ok := m.current(); ok {
			m.dispatch(tracker.ToggleFileSelection{Path: f.Path})
		}
	case key.Matches(msg, m.keys.SelectAll):
		// An empty SelectAllFiles means every known file, hidden ones included.
		paths := m.visiblePaths()
		switch {
		case len(paths) == 0:
		case allIn(paths, s.SelectedFiles):
			m.dispatch(tracker.ClearSelection{})
		default:
			m.dispatch(tracker.SelectAllFiles{Paths: paths})
		}
	case key.Matches(msg, m.keys.Clear):
		m.dispatch(tracker.ClearSelection{})

	case key.Matches(msg, m.keys.Ignore):
		m.ignoreTargets()
	case key.Matches(msg, m.keys.MarkSent):
		m.toggleSent()
	case key.Matches(msg, m.keys.BillMonth):
		if len(m.targets()) == 0 {
			break
		}
		month := s.EditingBillMonth
		if month == "" {
			month = m.currentMonth()
		}
		return m, m.startInput(common.BillMonth, "bill month: ", month)
	case key.Matches(msg, m.keys.Search):
		return m, m.startInput(common.Search, "/", s.SearchTerm)

	case key.Matches(msg, m.keys.Filter):
		m.dispatch(tracker.SetStatusFilter{Filter: next(statusCycle, s.StatusFilter)})
	case key.Matches(msg, m.keys.TypeFilter):
		m.dispatch(tracker.SetFileTypeFilter{Filter: next(typeCycle(s), s.FileTypeFilter)})
	case key.Matches(msg, m.keys.Sort):
		m.dispatch(tracker.SetSortBy{Key: next(sortCycle, s.SortBy)})
	case key.Matches(msg, m.keys.SortOrder):
		order := tracker.SortDesc
		if s.SortOrder == tracker.SortDesc {
			order = tracker.SortAsc
		}
		m.dispatch(tracker.SetSortOrder{Order: order})
	case key.Matches(msg, m.keys.ResetFilter):
		m.dispatch(tracker.ResetFilters{})

	case key.Matches(msg, m.keys.Undo):
		if m.store.Undo() {
			m.afterDocumentChange()
			m.status.SetText("Undone")
		} else {
			m.status.SetText("Nothing to undo")
		}
		m.sync(m.store.State())
	case key.Matches(msg, m.keys.Redo):
		if m.store.Redo() {
			m.afterDocumentChange()
			m.status.SetText("Redone")
		} else {
			m.status.SetText("Nothing to redo")
		}
		m.sync(m.store.State())

	case key.Matches(msg, m.keys.Stats):
		if !s.ShowStats {
			stats.Refresh(m.store, m.now())
		}
		m.dispatch(tracker.SetShowStats{Show: !s.ShowStats})
	case key.Matches(msg, m.keys.Folders):
		m.mode = common.Folders
		m.folderCursor = 0
		m.dispatch(tracker.SetShowChangeFolders{Show: true})
	case key.Matches(msg, m.keys.Compact):
		compact := !s.Settings.CompactView
		m.dispatch(tracker.UpdateSettings{Patch: tracker.SettingsPatch{CompactView: &compact}})
	case key.Matches(msg, m.keys.Report):
		return m, m.writeReport()
	}

	return m, nil
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		if m.mode == common.BillMonth {
			if _, ok := tracker.ParseMonth(value); !ok {
				m.status.SetText(fmt.Sprintf("%q is not a month (YYYY-MM)", value))
				return m, nil
			}
			m.setBillMonth(value)
		}
		m.endInput()
		return m, nil
	case tea.KeyEsc:
		if m.mode == common.Search {
			m.dispatch(tracker.SetSearchTerm{Term: ""})
		}
		m.endInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == common.Search {
		m.dispatch(tracker.SetSearchTerm{Term: m.input.Value()})
	}
	return m, cmd
}

func (m *Model) handleFolderKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	subs := m.state.Subfolders

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Clear), key.Matches(msg, m.keys.Folders):
		m.mode = common.Normal
		m.dispatch(tracker.SetShowChangeFolders{Show: false})
	case key.Matches(msg, m.keys.Up):
		m.folderCursor = max(m.folderCursor-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.folderCursor = min(m.folderCursor+1, max(len(subs)-1, 0))
	case key.Matches(msg, m.keys.Select):
		if m.folderCursor < len(subs) {
			m.undoable("Toggle subfolder", tracker.ToggleSubfolder{Path: subs[m.folderCursor].Path})
		}
	case key.Matches(msg, m.keys.Ignore):
		if m.folderCursor < len(subs) {
			m.undoable("Ignore subfolder", tracker.ToggleIgnoredSubfolder{Path: subs[m.folderCursor].Path})
		}
	case key.Matches(msg, m.keys.SelectAll):
		if m.state.SelectedSubfolders.Len() == len(subs) {
			m.undoable("Deselect all subfolders", tracker.DeselectAllSubfolders{})
		} else {
			m.undoable("Select all subfolders", tracker.SelectAllSubfolders{})
		}
	case key.Matches(msg, m.keys.Undo):
		if m.store.Undo() {
			m.afterDocumentChange()
		}
		m.sync(m.store.State())
	case key.Matches(msg, m.keys.Redo):
		if m.store.Redo() {
			m.afterDocumentChange()
		}
		m.sync(m.store.State())
	}
	return m, nil
}

func (m *Model) startInput(mode common.Mode, prompt, value string) tea.Cmd {
	m.mode = mode
	m.input.Prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) endInput() {
	m.mode = common.Normal
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) dispatch(action tracker.Action) {
	m.store.Dispatch(action)
	m.sync(m.store.State())
}

// undoable dispatches an action that changes what the user recorded, so it
// lands on the undo stack.
func (m *Model) undoable(label string, action tracker.Action) {
	m.store.DispatchUndoable(label, action)
	m.afterDocumentChange()
	m.sync(m.store.State())
}

func (m *Model) afterDocumentChange() {
	if m.store.State().ShowStats {
		stats.Refresh(m.store, m.now())
	}
}

// targets are the selected files, or the file under the cursor when nothing
// is selected.
func (m *Model) targets() []string {
	if m.state.SelectedFiles.Len() > 0 {
		return m.state.SelectedFiles.Slice()
	}
	if f, ok := m.current(); ok {
		return []string{f.Path}
	}
	return nil
}

func (m *Model) ignoreTargets() {
	paths := m.targets()
	switch len(paths) {
	case 0:
		return
	case 1:
		m.undoable("Ignore file", tracker.ToggleIgnoredFile{Path: paths[0]})
	default:
		ignored := m.state.IgnoredFiles
		for _, p := range paths {
			ignored = ignored.With(p)
		}
		m.undoable(fmt.Sprintf("Ignore %d files", len(paths)), tracker.SetIgnoredFiles{Paths: ignored})
		m.dispatch(tracker.ClearSelection{})
	}
	m.status.SetText(fmt.Sprintf("Ignored %d file(s)", len(paths)))
}

// toggleSent marks the targets sent this month, or clears the sent month
// when every target is already sent.
func (m *Model) toggleSent() {
	paths := m.targets()
	if len(paths) == 0 {
		return
	}

	month := m.currentMonth()
	unmark := true
	for _, p := range paths {
		if !m.state.TrackingData[p].Sent() {
			unmark = false
			break
		}
	}

	m.updateRecords(paths, "sent", func(rec tracker.BillRecord) tracker.BillRecord {
		if unmark {
			rec.SentMonth = ""
		} else {
			rec.SentMonth = month
		}
		return rec
	})

	if unmark {
		m.status.SetText(fmt.Sprintf("Cleared sent month on %d file(s)", len(paths)))
	} else {
		m.status.SetText(fmt.Sprintf("Marked %d file(s) sent in %s", len(paths), month))
	}
}

func (m *Model) setBillMonth(month string) {
	paths := m.targets()
	m.updateRecords(paths, "bill month", func(rec tracker.BillRecord) tracker.BillRecord {
		rec.BillMonth = month
		return rec
	})
	m.dispatch(tracker.SetEditingBillMonth{Month: month})
	m.status.SetText(fmt.Sprintf("Set bill month %s on %d file(s)", month, len(paths)))
}

// updateRecords applies fn to the record of every path as one undoable step.
func (m *Model) updateRecords(paths []string, what string, fn func(tracker.BillRecord) tracker.BillRecord) {
	if len(paths) == 1 {
		p := paths[0]
		m.undoable("Set "+what, tracker.UpdateTrackingData{FilePath: p, Data: fn(m.state.TrackingData[p])})
		return
	}

	data := make(tracker.TrackingData, len(m.state.TrackingData)+len(paths))
	for k, v := range m.state.TrackingData {
		data[k] = v
	}
	for _, p := range paths {
		data[p] = fn(data[p])
	}
	m.undoable(fmt.Sprintf("Set %s on %d files", what, len(paths)), tracker.SetTrackingData{Data: data})
}

func (m *Model) writeReport() tea.Cmd {
	if m.report == nil {
		m.status.SetText("Reports are not configured")
		return nil
	}
	s := m.state
	report := m.report
	return tea.Batch(
		m.status.SetLoading("Writing report"),
		func() tea.Msg {
			path, err := report(s)
			if err != nil {
				log.LogWithError(err).Error("Report export failed")
			}
			return messages.ReportWrittenMsg{Path: path, Error: err}
		},
	)
}

// sync adopts s as the rendered state and keeps the cursor in the list.
func (m *Model) sync(s tracker.State) {
	m.state = s
	m.files = tracker.VisibleFiles(s, m.now())
	if m.cursor >= len(m.files) {
		m.cursor = len(m.files) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if subs := len(s.Subfolders); m.folderCursor >= subs {
		m.folderCursor = max(subs-1, 0)
	}
	m.scroll()
}

func (m *Model) moveCursor(delta int) {
	if len(m.files) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.files)-1)
	m.scroll()
}

// scroll moves the visible range so the cursor stays on screen.
func (m *Model) scroll() {
	rows := m.pageRows()
	r := m.state.VisibleRange
	start := r.Start
	if m.cursor < start {
		start = m.cursor
	}
	if m.cursor >= start+rows {
		start = m.cursor - rows + 1
	}
	start = max(min(start, len(m.files)-rows), 0)
	next := tracker.Range{Start: start, End: start + rows}
	if next != r {
		m.dispatch(tracker.SetVisibleRange{Range: next})
	}
}

func (m *Model) pageRows() int {
	if m.height == 0 {
		return max(m.state.Settings.PageSize, 1)
	}
	return max(m.height-chromeLines, 1)
}

func (m *Model) current() (tracker.FileEntry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.files) {
		return tracker.FileEntry{}, false
	}
	return m.files[m.cursor], true
}

func (m *Model) visiblePaths() []string {
	paths := make([]string, len(m.files))
	for i, f := range m.files {
		paths[i] = f.Path
	}
	return paths
}

func (m *Model) currentMonth() string {
	if m.state.CurrentMonth != "" {
		return m.state.CurrentMonth
	}
	return m.now().Format(tracker.MonthLayout)
}

func allIn(paths []string, set tracker.PathSet) bool {
	for _, p := range paths {
		if !set.Has(p) {
			return false
		}
	}
	return true
}

func next(cycle []string, current string) string {
	i := slices.Index(cycle, current)
	return cycle[(i+1)%len(cycle)]
}

// typeCycle is "all" followed by the extensions present, without the dot.
func typeCycle(s tracker.State) []string {
	seen := map[string]bool{}
	var exts []string
	for _, f := range s.AllFiles {
		ext := strings.TrimPrefix(strings.ToLower(f.Extension), ".")
		if ext != "" && !seen[ext] {
			seen[ext] = true
			exts = append(exts, ext)
		}
	}
	slices.Sort(exts)
	return append([]string{tracker.FilterAll}, exts...)
}

// Getters

func (m *Model) State() tracker.State       { return m.state }
func (m *Model) Files() []tracker.FileEntry { return m.files }
func (m *Model) Cursor() int                { return m.cursor }
func (m *Model) FolderCursor() int          { return m.folderCursor }
func (m *Model) Mode() common.Mode          { return m.mode }
func (m *Model) ShowHelp() bool             { return m.showHelp }
func (m *Model) Now() time.Time             { return m.now() }
func (m *Model) Width() int                 { return m.width }
func (m *Model) StatusView() string         { return m.status.View() }
func (m *Model) HelpView() string           { return m.help.View(m.keys) }

// InputView renders the text input while searching or entering a month.
func (m *Model) InputView() string {
	if m.mode != common.Search && m.mode != common.BillMonth {
		return ""
	}
	return m.input.View()
}

// Status returns the current status line text.
func (m *Model) Status() string { return m.status.Text() }
