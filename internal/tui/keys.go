package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Text      key.Binding
	Header    key.Binding
	Image     key.Binding
	Quiz      key.Binding
	Columns   key.Binding
	Layout    key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Duplicate key.Binding
	Prune     key.Binding
	PickUp    key.Binding
	Drop      key.Binding
	Canvas    key.Binding
	Cancel    key.Binding
	Preview   key.Binding
	Save      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Text:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "text")),
		Header:    key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "header")),
		Image:     key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "image")),
		Quiz:      key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "quiz")),
		Columns:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "columns")),
		Layout:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "layout")),
		Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit title")),
		Delete:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Duplicate: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "duplicate")),
		Prune:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "prune empty")),
		PickUp:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pick up")),
		Drop:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop here")),
		Canvas:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "drop on canvas")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Preview:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preview")),
		Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "save & quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PickUp, k.Text, k.Delete, k.Preview, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PickUp, k.Drop, k.Canvas, k.Cancel},
		{k.Text, k.Header, k.Image, k.Quiz, k.Columns, k.Layout},
		{k.Edit, k.Delete, k.Duplicate, k.Prune},
		{k.Preview, k.Save, k.Help, k.Quit},
	}
}

// dragKeyMap is the help shown while a node is picked up.
type dragKeyMap keyMap

func (k dragKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Drop, k.Canvas, k.Cancel}
}

func (k dragKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
