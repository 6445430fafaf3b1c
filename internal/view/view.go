// Package view projects the task list into a display tree and writes the
// list back to storage after every projection.
package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"tasktabs/internal/task"
)

const Placeholder = "No tasks found"

type Tab struct {
	Filter task.Filter
	Label  string
	Count  int
	Active bool
}

type Row struct {
	ID        task.ID
	Text      string
	Completed bool
}

// View is the result of one render. Rows is empty when the placeholder is
// shown. Focus is zero unless the focused task is among Rows.
type View struct {
	Filter task.Filter
	Tabs   []Tab
	Rows   []Row
	Focus  task.ID
}

func (v View) Empty() bool {
	return len(v.Rows) == 0
}

// Index returns the position of id among the rows, or -1.
func (v View) Index(id task.ID) int {
	if id == 0 {
		return -1
	}
	for i, r := range v.Rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (v View) Has(id task.ID) bool {
	return v.Index(id) >= 0
}

// Saver receives the full task list at the end of every render.
type Saver interface {
	SaveTasks(tasks []task.Task)
}

type Renderer struct {
	saver Saver
}

func NewRenderer(saver Saver) *Renderer {
	return &Renderer{saver: saver}
}

func (r *Renderer) Render(list *task.List, filter task.Filter, focused task.ID) View {
	counts := list.Counts()
	v := View{
		Filter: filter,
		Tabs: []Tab{
			{Filter: task.FilterAll, Label: "Tasks", Count: counts.Total},
			{Filter: task.FilterPending, Label: "Pending", Count: counts.Pending},
			{Filter: task.FilterCompleted, Label: "Completed", Count: counts.Completed},
		},
	}
	for i := range v.Tabs {
		v.Tabs[i].Active = v.Tabs[i].Filter == filter
	}
	for _, t := range list.Filtered(filter) {
		v.Rows = append(v.Rows, Row{ID: t.ID, Text: t.Text, Completed: t.Completed})
	}
	if v.Has(focused) {
		v.Focus = focused
	}

	if r.saver != nil {
		r.saver.SaveTasks(list.All())
	}
	return v
}

func (t Tab) Title() string {
	return fmt.Sprintf("%s (%d)", t.Label, t.Count)
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Escape makes user text safe to place inside markup.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Sanitize strips escape sequences and control characters so user text
// cannot drive the terminal.
func Sanitize(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if r == '\t' {
			return ' '
		}
		if r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0) {
			return -1
		}
		return r
	}, s)
}
