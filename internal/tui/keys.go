package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings of the tracker view.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	GotoTop     key.Binding
	GotoEnd     key.Binding
	Select      key.Binding
	SelectAll   key.Binding
	Clear       key.Binding
	Ignore      key.Binding
	MarkSent    key.Binding
	BillMonth   key.Binding
	Search      key.Binding
	Filter      key.Binding
	TypeFilter  key.Binding
	Sort        key.Binding
	SortOrder   key.Binding
	ResetFilter key.Binding
	Undo        key.Binding
	Redo        key.Binding
	Stats       key.Binding
	Folders     key.Binding
	Compact     key.Binding
	Report      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("j/↓", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("ctrl+u", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("ctrl+d", "page down"),
		),
		GotoTop: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "top"),
		),
		GotoEnd: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "end"),
		),
		Select: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "select"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "select all"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear"),
		),
		Ignore: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "ignore"),
		),
		MarkSent: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "mark sent"),
		),
		BillMonth: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "bill month"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "status filter"),
		),
		TypeFilter: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "type filter"),
		),
		Sort: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "sort by"),
		),
		SortOrder: key.NewBinding(
			key.WithKeys("O"),
			key.WithHelp("O", "reverse"),
		),
		ResetFilter: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reset filters"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "redo"),
		),
		Stats: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "stats"),
		),
		Folders: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "folders"),
		),
		Compact: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "compact"),
		),
		Report: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "export report"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the short help bindings.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.MarkSent, k.BillMonth, k.Search, k.Filter, k.Undo, k.Help, k.Quit}
}

// FullHelp returns the full help bindings.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.GotoTop, k.GotoEnd},
		{k.Select, k.SelectAll, k.Clear, k.Ignore, k.MarkSent, k.BillMonth},
		{k.Search, k.Filter, k.TypeFilter, k.Sort, k.SortOrder, k.ResetFilter},
		{k.Undo, k.Redo, k.Stats, k.Folders, k.Compact, k.Report},
		{k.Help, k.Quit},
	}
}
