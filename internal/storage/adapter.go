package storage

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"tasktabs/internal/task"
)

const (
	TasksKey = "todo-tasks"
	PrefsKey = "todo-prefs"
)

// Prefs is the UI state that survives a restart.
type Prefs struct {
	Filter    task.Filter
	FocusedID task.ID
}

type record struct {
	ID        int64  `json:"id"`
	Task      string `json:"task"`
	Pending   bool   `json:"pending"`
	Completed bool   `json:"completed"`
}

type prefsRecord struct {
	Filter    task.Filter `json:"filter"`
	FocusedID *int64      `json:"focusedId"`
}

// Adapter maps tasks and preferences onto a KV. None of its methods fail:
// storage errors are logged at warn level and the caller carries on with
// whatever it has in memory.
type Adapter struct {
	kv            KV
	log           *slog.Logger
	defaultFilter task.Filter
}

type AdapterOption func(*Adapter)

func WithLogger(l *slog.Logger) AdapterOption {
	return func(a *Adapter) {
		if l != nil {
			a.log = l
		}
	}
}

// WithDefaultFilter sets the filter LoadPrefs reports when none is stored.
func WithDefaultFilter(f task.Filter) AdapterOption {
	return func(a *Adapter) {
		if f.Valid() {
			a.defaultFilter = f
		}
	}
}

func NewAdapter(kv KV, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		kv:            kv,
		log:           slog.New(slog.DiscardHandler),
		defaultFilter: task.FilterAll,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SaveTasks writes the list, or removes the key entirely when the list is
// empty.
func (a *Adapter) SaveTasks(tasks []task.Task) {
	if len(tasks) == 0 {
		if err := a.kv.RemoveItem(TasksKey); err != nil {
			a.log.Warn("local storage not available", "key", TasksKey, "err", err)
		}
		return
	}
	records := make([]record, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, record{
			ID:        int64(t.ID),
			Task:      t.Text,
			Pending:   t.Pending(),
			Completed: t.Completed,
		})
	}
	data, err := json.Marshal(records)
	if err != nil {
		a.log.Warn("encode tasks", "err", err)
		return
	}
	if err := a.kv.SetItem(TasksKey, string(data)); err != nil {
		a.log.Warn("local storage not available", "key", TasksKey, "err", err)
	}
}

// LoadTasks returns the stored list, or an empty one if nothing usable is
// stored. Records are normalized: bad or repeated ids are replaced, text
// that is not a string becomes empty and completed is read by truthiness.
// A stored pending flag is ignored since it is derived from completed.
func (a *Adapter) LoadTasks() []task.Task {
	raw, ok, err := a.kv.GetItem(TasksKey)
	if err != nil {
		a.log.Warn("error loading tasks", "key", TasksKey, "err", err)
		return nil
	}
	if !ok || raw == "" {
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		a.log.Warn("error loading tasks", "key", TasksKey, "err", err)
		return nil
	}

	tasks := make([]task.Task, 0, len(items))
	seen := make(map[task.ID]bool, len(items))
	for _, item := range items {
		fields, ok := decodeObject(item)
		if !ok {
			a.log.Warn("skipping malformed task record", "record", string(item))
			continue
		}
		id, ok := parseID(fields["id"])
		if ok {
			task.Observe(id)
		}
		if !ok || seen[id] {
			id = task.NewID()
		}
		seen[id] = true
		text, _ := fields["task"].(string)
		tasks = append(tasks, task.Task{
			ID:        id,
			Text:      text,
			Completed: truthy(fields["completed"]),
		})
	}
	return tasks
}

func (a *Adapter) SavePrefs(p Prefs) {
	rec := prefsRecord{Filter: p.Filter}
	if !rec.Filter.Valid() {
		rec.Filter = a.defaultFilter
	}
	if p.FocusedID != 0 {
		id := int64(p.FocusedID)
		rec.FocusedID = &id
	}
	data, err := json.Marshal(rec)
	if err != nil {
		a.log.Warn("encode prefs", "err", err)
		return
	}
	if err := a.kv.SetItem(PrefsKey, string(data)); err != nil {
		a.log.Warn("failed to save prefs", "key", PrefsKey, "err", err)
	}
}

// LoadPrefs falls back field by field: an unusable filter becomes the
// default filter and an unusable focusedId becomes zero.
func (a *Adapter) LoadPrefs() Prefs {
	p := Prefs{Filter: a.defaultFilter}
	raw, ok, err := a.kv.GetItem(PrefsKey)
	if err != nil {
		a.log.Warn("failed to load prefs", "key", PrefsKey, "err", err)
		return p
	}
	if !ok || raw == "" {
		return p
	}
	fields, ok := decodeObject(json.RawMessage(raw))
	if !ok {
		a.log.Warn("failed to load prefs", "key", PrefsKey, "raw", raw)
		return p
	}
	if s, ok := fields["filter"].(string); ok && task.Filter(s).Valid() {
		p.Filter = task.Filter(s)
	}
	if id, ok := parseID(fields["focusedId"]); ok {
		p.FocusedID = id
	}
	return p
}

func decodeObject(data json.RawMessage) (map[string]any, bool) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}

// parseID accepts positive JSON numbers and numeric strings. Fractional
// values are truncated.
func parseID(v any) (task.ID, bool) {
	var s string
	switch x := v.(type) {
	case json.Number:
		s = x.String()
	case string:
		s = strings.TrimSpace(x)
	default:
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return task.ID(n), n > 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 1 || f >= math.MaxInt64 {
		return 0, false
	}
	return task.ID(f), true
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case json.Number:
		f, err := x.Float64()
		return err == nil && f != 0 && !math.IsNaN(f)
	default:
		return true
	}
}
