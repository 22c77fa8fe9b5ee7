package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the TUI.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Enter       key.Binding
	Space       key.Binding
	Plant       key.Binding
	Reflect     key.Binding
	Save        key.Binding
	Dismiss     key.Binding
	Network     key.Binding
	CycleStatus key.Binding
	Delete      key.Binding
	Cancel      key.Binding
	Reload      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "collapse"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "expand"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "toggle expand"),
		),
		Space: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle milestone"),
		),
		Plant: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "plant intention"),
		),
		Reflect: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reflect"),
		),
		Save: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "save reflection"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss reflection"),
		),
		Network: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "network"),
		),
		CycleStatus: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "cycle status"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel request"),
		),
		Reload: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reload"),
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

// ShortHelp returns the footer help text.
func (k KeyMap) ShortHelp() string {
	return "↑↓ nav  → expand  space toggle  a plant  r reflect  n network  s status  ? help"
}

// FullHelp returns all key bindings for the help modal.
func (k KeyMap) FullHelp() [][]string {
	return [][]string{
		{"↑/k", "Move up"},
		{"↓/j", "Move down"},
		{"←/h", "Collapse / go to goal"},
		{"→/l", "Expand milestones"},
		{"enter", "Toggle expand/collapse"},
		{"space", "Toggle milestone complete"},
		{"a", "Plant a new intention"},
		{"r", "Ask for a reflection"},
		{"w", "Save reflection to journal"},
		{"x", "Dismiss reflection"},
		{"n", "Toggle the unfolding path"},
		{"s", "Cycle goal status"},
		{"d", "Delete goal (with confirmation)"},
		{"esc", "Cancel pending request"},
		{"R", "Reload from disk"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
}
