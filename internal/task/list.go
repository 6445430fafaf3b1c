package task

import "strings"

// List is the ordered in-memory task collection. New tasks are appended;
// order is otherwise never changed.
type List struct {
	tasks []Task
}

func NewList(tasks []Task) *List {
	l := &List{tasks: make([]Task, 0, len(tasks))}
	for _, t := range tasks {
		Observe(t.ID)
		l.tasks = append(l.tasks, t)
	}
	return l
}

// Add appends a pending task. Text that is empty after trimming is
// rejected and reported with ok=false.
func (l *List) Add(text string) (Task, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, false
	}
	t := Task{ID: NewID(), Text: text}
	l.tasks = append(l.tasks, t)
	return t, true
}

func (l *List) Toggle(id ID) bool {
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.tasks[i].Completed = !l.tasks[i].Completed
	return true
}

func (l *List) Remove(id ID) bool {
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.tasks = append(l.tasks[:i], l.tasks[i+1:]...)
	return true
}

func (l *List) Clear() {
	l.tasks = nil
}

func (l *List) Get(id ID) (Task, bool) {
	i := l.index(id)
	if i < 0 {
		return Task{}, false
	}
	return l.tasks[i], true
}

func (l *List) Len() int {
	return len(l.tasks)
}

func (l *List) All() []Task {
	out := make([]Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

// Filtered returns the tasks matching f in insertion order. The result is
// computed on every call.
func (l *List) Filtered(f Filter) []Task {
	var out []Task
	for _, t := range l.tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

func (l *List) Counts() Counts {
	c := Counts{Total: len(l.tasks)}
	for _, t := range l.tasks {
		if FilterPending.Match(t) {
			c.Pending++
		}
		if FilterCompleted.Match(t) {
			c.Completed++
		}
	}
	return c
}

func (l *List) index(id ID) int {
	for i, t := range l.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
