package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	NextView   key.Binding
	PrevView   key.Binding
	Escape     key.Binding

	// View switching
	ViewHome    key.Binding
	ViewLibrary key.Binding
	ViewQuiz    key.Binding
	ViewArticle key.Binding

	// Navigation
	Up   key.Binding
	Down key.Binding

	// Library actions
	Toggle         key.Binding
	OpenPicker     key.Binding
	DeleteSelected key.Binding
	DeleteAll      key.Binding
	ClearSelection key.Binding
	Refresh        key.Binding
	Lock           key.Binding

	// Sessions
	Confirm   key.Binding
	Answer    key.Binding
	EditTopic key.Binding
	ScrollUp  key.Binding
	ScrollDn  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		NextView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next view"),
		),
		PrevView: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous view"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Cancel / home"),
		),

		ViewHome: key.NewBinding(
			key.WithKeys("h", "1"),
			key.WithHelp("h/1", "Home"),
		),
		ViewLibrary: key.NewBinding(
			key.WithKeys("u", "2"),
			key.WithHelp("u/2", "Library"),
		),
		ViewQuiz: key.NewBinding(
			key.WithKeys("q", "3"),
			key.WithHelp("q/3", "Quiz"),
		),
		ViewArticle: key.NewBinding(
			key.WithKeys("a", "4"),
			key.WithHelp("a/4", "Article"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),

		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "Select book"),
		),
		OpenPicker: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Upload PDF"),
		),
		DeleteSelected: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Delete selected"),
		),
		DeleteAll: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "Delete all"),
		),
		ClearSelection: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Clear selection"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh library"),
		),
		Lock: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Lock library"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
		Answer: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "Answer"),
		),
		EditTopic: key.NewBinding(
			key.WithKeys("i", "/"),
			key.WithHelp("i", "Edit topic"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("ctrl+u", "Scroll up"),
		),
		ScrollDn: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("ctrl+d", "Scroll down"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextView, k.ViewHome, k.ViewLibrary, k.ViewQuiz, k.ViewArticle},
		{k.Up, k.Down, k.Confirm, k.Escape},
		{k.Toggle, k.OpenPicker, k.DeleteSelected, k.DeleteAll, k.ClearSelection, k.Refresh, k.Lock},
		{k.Answer, k.EditTopic, k.ScrollUp, k.ScrollDn},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
