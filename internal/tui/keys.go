package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Tab          key.Binding
	ShiftTab     key.Binding
	Quit         key.Binding
	Help         key.Binding
	Up           key.Binding
	Down         key.Binding
	Enter        key.Binding
	Select       key.Binding
	SelectAll    key.Binding
	Edit         key.Binding
	Save         key.Binding
	Cancel       key.Binding
	Remove       key.Binding
	MoveUp       key.Binding
	MoveDown     key.Binding
	Finder       key.Binding
	Deactivate   key.Binding
	Generate     key.Binding
	Refresh      key.Binding
	AutoRefresh  key.Binding
	AutoFocus    key.Binding
	FocusEditing key.Binding
	SetPost      key.Binding
	Input        key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Quit, k.Help}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Quit, k.Help},
		{k.Up, k.Down, k.Enter, k.Select, k.SelectAll},
	}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev tab"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "expand/insert"),
		),
		Select: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "select all"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit schedule"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel edit"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "remove selected"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "move up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "move down"),
		),
		Finder: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "find files"),
		),
		Deactivate: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "deactivate selected"),
		),
		Generate: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "generate"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "refresh now"),
		),
		AutoRefresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "auto-refresh"),
		),
		AutoFocus: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "auto-focus"),
		),
		FocusEditing: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "go to edit"),
		),
		SetPost: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "set post"),
		),
		Input: key.NewBinding(
			key.WithKeys("1", "2", "3", "4"),
			key.WithHelp("1-4", "toggle input"),
		),
	}
}
