package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Movement
	Up       key.Binding
	Down     key.Binding
	Expand   key.Binding
	Collapse key.Binding
	Pane     key.Binding

	// Tree
	Select key.Binding
	Toggle key.Binding
	Types  key.Binding
	Next   key.Binding
	Prev   key.Binding
	Tab    key.Binding
	Jump   key.Binding
	Back   key.Binding
	Forget key.Binding

	// Simulation explorer
	Search      key.Binding
	Add         key.Binding
	AddInstance key.Binding
	Remove      key.Binding
	Clear       key.Binding
	NextPage    key.Binding
	PrevPage    key.Binding

	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Expand: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "expand"),
		),
		Collapse: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "collapse"),
		),
		Pane: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "switch pane"),
		),

		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "expand/collapse"),
		),
		Types: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6"),
			key.WithHelp("1-6", "BOM type"),
		),
		Next: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next BOM type"),
		),
		Prev: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "previous BOM type"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next detail tab"),
		),
		Jump: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "jump to requirements"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "backspace"),
			key.WithHelp("b", "jump back"),
		),
		Forget: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear jump history"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search files"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "compare file"),
		),
		AddInstance: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "compare instance"),
		),
		Remove: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "remove from compare"),
		),
		Clear: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "clear compare"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "previous page"),
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

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Toggle, k.Types, k.Jump, k.Back, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Expand, k.Collapse, k.Pane},
		{k.Select, k.Toggle, k.Types, k.Next, k.Prev, k.Tab},
		{k.Jump, k.Back, k.Forget},
		{k.Search, k.Add, k.AddInstance, k.Remove, k.Clear, k.NextPage, k.PrevPage},
		{k.Help, k.Quit},
	}
}
