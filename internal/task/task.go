package task

import (
	"strings"
	"sync"
	"time"
)

type ID int64

type Task struct {
	ID        ID
	Text      string
	Completed bool
}

// Pending is derived from Completed rather than stored, so the two can
// never disagree.
func (t Task) Pending() bool {
	return !t.Completed
}

type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

func Filters() []Filter {
	return []Filter{FilterAll, FilterPending, FilterCompleted}
}

func (f Filter) Valid() bool {
	switch f {
	case FilterAll, FilterPending, FilterCompleted:
		return true
	}
	return false
}

// Match reports whether t belongs in the view selected by f.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterPending:
		return t.Pending() && !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// ParseFilter is lenient: anything it does not recognise becomes FilterAll.
func ParseFilter(s string) Filter {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	if f.Valid() {
		return f
	}
	return FilterAll
}

type Counts struct {
	Total     int
	Pending   int
	Completed int
}

var ids struct {
	mu   sync.Mutex
	last ID
}

// NewID returns an id derived from the current time in milliseconds. Ids
// are strictly increasing within the process.
func NewID() ID {
	ids.mu.Lock()
	defer ids.mu.Unlock()
	id := ID(time.Now().UnixMilli())
	if id <= ids.last {
		id = ids.last + 1
	}
	ids.last = id
	return id
}

// Observe makes sure ids handed out later never collide with id, which
// came from somewhere else (typically persisted state).
func Observe(id ID) {
	ids.mu.Lock()
	defer ids.mu.Unlock()
	if id > ids.last {
		ids.last = id
	}
}
