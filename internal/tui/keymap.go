package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	// Actions
	Edit    key.Binding
	Delete  key.Binding
	Remove  key.Binding
	Add     key.Binding
	Save    key.Binding
	Cancel  key.Binding
	Confirm key.Binding
	Decline key.Binding

	// Inline editor session
	Switch     key.Binding
	PrevRecord key.Binding
	NextRecord key.Binding

	// Views
	ToggleFilter key.Binding
	ResetFilter  key.Binding
	Summary      key.Binding
	Refresh      key.Binding

	// Application
	Quit      key.Binding
	ForceQuit key.Binding
	Help      key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+b"),
			key.WithHelp("PgUp/Ctrl+B", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+f"),
			key.WithHelp("PgDn/Ctrl+F", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("Home/g", "newest"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("End/G", "oldest"),
		),

		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e/Enter", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Remove: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("Ctrl+X", "delete while editing"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s", "enter"),
			key.WithHelp("Enter/Ctrl+S", "save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "cancel"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "confirm"),
		),
		Decline: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n/Esc", "keep"),
		),

		Switch: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("Ctrl+E", "close editor"),
		),
		PrevRecord: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "edit previous"),
		),
		NextRecord: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "edit next"),
		),

		ToggleFilter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filters"),
		),
		ResetFilter: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reset filters"),
		),
		Summary: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "summary"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),

		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "force quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Edit, k.Delete, k.Add, k.ToggleFilter, k.Summary, k.Help, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End},
		{k.Edit, k.Save, k.Cancel, k.Delete, k.Remove, k.Confirm, k.Decline},
		{k.Switch, k.PrevRecord, k.NextRecord},
		{k.Add, k.ToggleFilter, k.ResetFilter, k.Summary, k.Refresh},
		{k.Help, k.Quit, k.ForceQuit},
	}
}

// editingKeys is the help shown while the inline editor is open.
type editingKeys struct{ k KeyMap }

func (e editingKeys) ShortHelp() []key.Binding {
	return []key.Binding{e.k.Save, e.k.Cancel, e.k.Remove, e.k.PrevRecord, e.k.NextRecord}
}

func (e editingKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{e.ShortHelp()}
}
