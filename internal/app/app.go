// Package app owns the application state and turns user events into
// mutations, renders and storage writes.
package app

import (
	"log/slog"
	"strings"

	"tasktabs/internal/storage"
	"tasktabs/internal/task"
	"tasktabs/internal/view"
)

// Storage is what the controller needs from persistence. *storage.Adapter
// satisfies it.
type Storage interface {
	SaveTasks(tasks []task.Task)
	LoadTasks() []task.Task
	SavePrefs(p storage.Prefs)
	LoadPrefs() storage.Prefs
}

// State is everything the UI shows, owned by the Controller.
type State struct {
	Tasks     *task.List
	Filter    task.Filter
	FocusedID task.ID
}

type Keys struct {
	Complete string
	Delete   string
}

func DefaultKeys() Keys {
	return Keys{Complete: "u", Delete: "d"}
}

type Controller struct {
	state    State
	store    Storage
	renderer *view.Renderer
	keys     Keys
	log      *slog.Logger
	current  view.View
}

type Option func(*Controller)

func WithKeys(k Keys) Option {
	return func(c *Controller) {
		if k.Complete != "" {
			c.keys.Complete = strings.ToLower(k.Complete)
		}
		if k.Delete != "" {
			c.keys.Delete = strings.ToLower(k.Delete)
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// New restores tasks and preferences from store and performs the first
// render, which puts focus back on the persisted row if it still exists.
func New(store Storage, opts ...Option) *Controller {
	c := &Controller{
		store:    store,
		renderer: view.NewRenderer(store),
		keys:     DefaultKeys(),
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}

	prefs := store.LoadPrefs()
	c.state = State{
		Tasks:     task.NewList(store.LoadTasks()),
		Filter:    prefs.Filter,
		FocusedID: prefs.FocusedID,
	}
	if !c.state.Filter.Valid() {
		c.state.Filter = task.FilterAll
	}
	c.render()
	c.log.Debug("restored state", "tasks", c.state.Tasks.Len(), "filter", c.state.Filter, "focused", c.state.FocusedID)
	return c
}

func (c *Controller) View() view.View {
	return c.current
}

func (c *Controller) State() State {
	return c.state
}

// Dispatch applies ev and returns the resulting view. Destructive events
// consult confirm first; a nil confirm declines.
func (c *Controller) Dispatch(ev Event, confirm Confirmer) view.View {
	if confirm == nil {
		confirm = Never
	}
	switch ev := ev.(type) {
	case Submit:
		c.submit(ev.Text)
	case SelectFilter:
		c.selectFilter(ev.Filter)
	case ClearAll:
		c.clearAll(confirm)
	case CheckboxToggled:
		c.checkboxToggled(ev.ID)
	case RowFocused:
		c.rowFocused(ev.ID)
	case KeyPressed:
		c.keyPressed(ev.Key, confirm)
	case Delete:
		c.delete(ev.ID, confirm)
	default:
		c.log.Warn("unhandled event", "event", ev)
	}
	return c.current
}

func (c *Controller) submit(text string) {
	t, ok := c.state.Tasks.Add(text)
	if !ok {
		return
	}
	c.log.Debug("task added", "id", t.ID)
	c.render()
}

func (c *Controller) selectFilter(f task.Filter) {
	if !f.Valid() {
		c.log.Warn("ignoring unknown filter", "filter", f)
		return
	}
	c.state.Filter = f
	c.savePrefs()
	c.render()
}

func (c *Controller) clearAll(confirm Confirmer) {
	if !confirm.Confirm(PromptClearAll) {
		return
	}
	c.state.Tasks.Clear()
	c.store.SaveTasks(nil)
	c.render()
}

func (c *Controller) checkboxToggled(id task.ID) {
	if !c.state.Tasks.Toggle(id) {
		return
	}
	c.render()
	c.savePrefs()
}

func (c *Controller) rowFocused(id task.ID) {
	if !c.current.Has(id) {
		return
	}
	c.state.FocusedID = id
	c.current.Focus = id
	c.savePrefs()
}

// keyPressed only acts when the focused row is on screen; otherwise there
// is no row for the shortcut to apply to.
func (c *Controller) keyPressed(key string, confirm Confirmer) {
	id := c.current.Focus
	if id == 0 {
		return
	}
	if _, ok := c.state.Tasks.Get(id); !ok {
		return
	}
	switch strings.ToLower(key) {
	case c.keys.Complete:
		c.state.Tasks.Toggle(id)
		c.state.FocusedID = id
		c.render()
	case c.keys.Delete:
		c.delete(id, confirm)
	}
}

func (c *Controller) delete(id task.ID, confirm Confirmer) {
	if _, ok := c.state.Tasks.Get(id); !ok {
		return
	}
	if !confirm.Confirm(PromptDelete) {
		return
	}
	c.state.Tasks.Remove(id)
	if c.state.FocusedID == id {
		c.state.FocusedID = 0
	}
	c.savePrefs()
	c.render()
}

func (c *Controller) render() {
	c.current = c.renderer.Render(c.state.Tasks, c.state.Filter, c.state.FocusedID)
}

func (c *Controller) savePrefs() {
	c.store.SavePrefs(storage.Prefs{Filter: c.state.Filter, FocusedID: c.state.FocusedID})
}
