package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"tasktabs/internal/config"
)

type keyMap struct {
	Quit          key.Binding
	Add           key.Binding
	Up            key.Binding
	Down          key.Binding
	Toggle        key.Binding
	Complete      key.Binding
	Delete        key.Binding
	ClearAll      key.Binding
	NextFilter    key.Binding
	PrevFilter    key.Binding
	ShowAll       key.Binding
	ShowPending   key.Binding
	ShowCompleted key.Binding
	Confirm       key.Binding
	Cancel        key.Binding
	Yes           key.Binding
	No            key.Binding
}

func newKeyMap(k config.Keymap) keyMap {
	return keyMap{
		Quit:          key.NewBinding(key.WithKeys(k.Quit, "ctrl+c"), key.WithHelp(label(k.Quit), "quit")),
		Add:           key.NewBinding(key.WithKeys(k.Add), key.WithHelp(label(k.Add), "add")),
		Up:            key.NewBinding(key.WithKeys(k.Up, "up"), key.WithHelp(label(k.Up)+"/↑", "up")),
		Down:          key.NewBinding(key.WithKeys(k.Down, "down"), key.WithHelp(label(k.Down)+"/↓", "down")),
		Toggle:        key.NewBinding(key.WithKeys(k.Toggle), key.WithHelp(label(k.Toggle), "check")),
		Complete:      key.NewBinding(key.WithKeys(k.Complete), key.WithHelp(label(k.Complete), "toggle")),
		Delete:        key.NewBinding(key.WithKeys(k.Delete), key.WithHelp(label(k.Delete), "delete")),
		ClearAll:      key.NewBinding(key.WithKeys(k.ClearAll), key.WithHelp(label(k.ClearAll), "clear all")),
		NextFilter:    key.NewBinding(key.WithKeys(k.NextFilter), key.WithHelp(label(k.NextFilter), "next tab")),
		PrevFilter:    key.NewBinding(key.WithKeys(k.PrevFilter), key.WithHelp(label(k.PrevFilter), "prev tab")),
		ShowAll:       key.NewBinding(key.WithKeys(k.ShowAll), key.WithHelp(label(k.ShowAll), "all")),
		ShowPending:   key.NewBinding(key.WithKeys(k.ShowPending), key.WithHelp(label(k.ShowPending), "pending")),
		ShowCompleted: key.NewBinding(key.WithKeys(k.ShowCompleted), key.WithHelp(label(k.ShowCompleted), "completed")),
		Confirm:       key.NewBinding(key.WithKeys(k.Confirm), key.WithHelp(label(k.Confirm), "save")),
		Cancel:        key.NewBinding(key.WithKeys(k.Cancel), key.WithHelp(label(k.Cancel), "cancel")),
		Yes:           key.NewBinding(key.WithKeys(k.ConfirmYes, upper(k.ConfirmYes)), key.WithHelp(label(k.ConfirmYes), "yes")),
		No:            key.NewBinding(key.WithKeys(k.ConfirmNo, upper(k.ConfirmNo), k.Cancel), key.WithHelp(label(k.ConfirmNo), "no")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Add, k.Toggle, k.Complete, k.Delete, k.NextFilter, k.ClearAll, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextFilter, k.PrevFilter},
		{k.ShowAll, k.ShowPending, k.ShowCompleted},
		{k.Add, k.Toggle, k.Complete, k.Delete, k.ClearAll},
		{k.Quit},
	}
}

func label(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func upper(k string) string {
	if len(k) == 1 && k[0] >= 'a' && k[0] <= 'z' {
		return string(k[0] - 'a' + 'A')
	}
	return k
}
