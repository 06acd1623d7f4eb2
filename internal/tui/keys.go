package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Enter    key.Binding
	Back     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	NextPane key.Binding

	// Browse modes
	ModeLatest  key.Binding
	ModePacks   key.Binding
	ModeGroups  key.Binding
	ModeArtists key.Binding
	ModeYears   key.Binding

	// Actions
	Quit         key.Binding
	Help         key.Binding
	Escape       key.Binding
	Filter       key.Binding
	FileFilter   key.Binding
	ToggleMags   key.Binding
	ToggleSpider key.Binding
	CycleSort    key.Binding
	Open         key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "right"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select/open"),
		),
		Back: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("bksp", "back"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "go to end"),
		),
		NextPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),

		ModeLatest: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "latest"),
		),
		ModePacks: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "packs"),
		),
		ModeGroups: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "groups"),
		),
		ModeArtists: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "artists"),
		),
		ModeYears: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "years"),
		),

		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search archive"),
		),
		FileFilter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter files"),
		),
		ToggleMags: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "toggle magazines"),
		),
		ToggleSpider: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "toggle spider"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "cycle sort"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter", "o"),
			key.WithHelp("enter/o", "download file"),
		),
	}
}
