package app

import "tasktabs/internal/task"

// Event is one user action. The set is closed; Dispatch handles every
// variant.
type Event interface {
	event()
}

// Submit is the add form being submitted.
type Submit struct{ Text string }

type SelectFilter struct{ Filter task.Filter }

type ClearAll struct{}

// CheckboxToggled is a row's checkbox changing state.
type CheckboxToggled struct{ ID task.ID }

// RowFocused is a row receiving input focus.
type RowFocused struct{ ID task.ID }

// KeyPressed is a key pressed anywhere while a row may hold focus.
type KeyPressed struct{ Key string }

// Delete removes one task after confirmation.
type Delete struct{ ID task.ID }

func (Submit) event()          {}
func (SelectFilter) event()    {}
func (ClearAll) event()        {}
func (CheckboxToggled) event() {}
func (RowFocused) event()      {}
func (KeyPressed) event()      {}
func (Delete) event()          {}

// Confirmer answers the yes/no question asked before a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}

var (
	Always Confirmer = ConfirmFunc(func(string) bool { return true })
	Never  Confirmer = ConfirmFunc(func(string) bool { return false })
)

const (
	PromptClearAll = "Clear all tasks?"
	PromptDelete   = "Delete this task?"
)
