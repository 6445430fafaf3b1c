package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(tasks []Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Text)
	}
	return out
}

func TestAddAppendsPendingTask(t *testing.T) {
	l := NewList(nil)

	for i, text := range []string{"Buy milk", "  walk dog  ", "x"} {
		added, ok := l.Add(text)
		require.True(t, ok)
		assert.Equal(t, i+1, l.Len())
		assert.False(t, added.Completed)
		assert.True(t, added.Pending())
	}

	assert.Equal(t, []string{"Buy milk", "walk dog", "x"}, texts(l.All()))
}

func TestAddRejectsBlankText(t *testing.T) {
	l := NewList(nil)

	for _, text := range []string{"", "   ", "\t\n"} {
		_, ok := l.Add(text)
		assert.False(t, ok, "text %q", text)
	}
	assert.Equal(t, 0, l.Len())
}

func TestAddAssignsUniqueIncreasingIDs(t *testing.T) {
	l := NewList(nil)
	seen := map[ID]bool{}
	var last ID
	for i := 0; i < 50; i++ {
		added, ok := l.Add("task")
		require.True(t, ok)
		assert.False(t, seen[added.ID], "duplicate id %d", added.ID)
		assert.Greater(t, added.ID, last)
		seen[added.ID] = true
		last = added.ID
	}
}

func TestNewListObservesExistingIDs(t *testing.T) {
	future := NewID() + 1_000_000
	l := NewList([]Task{{ID: future, Text: "from disk"}})

	added, ok := l.Add("new")
	require.True(t, ok)
	assert.Greater(t, added.ID, future)
}

func TestToggleIsItsOwnInverse(t *testing.T) {
	l := NewList(nil)
	a, _ := l.Add("A")
	b, _ := l.Add("B")
	l.Toggle(b.ID)
	before := l.All()

	require.True(t, l.Toggle(a.ID))
	got, _ := l.Get(a.ID)
	assert.True(t, got.Completed)
	assert.False(t, got.Pending())

	require.True(t, l.Toggle(a.ID))
	assert.Equal(t, before, l.All())
}

func TestToggleAndRemoveMissingIDAreNoOps(t *testing.T) {
	l := NewList(nil)
	l.Add("A")
	before := l.All()

	assert.False(t, l.Toggle(12345))
	assert.False(t, l.Remove(12345))
	assert.Equal(t, before, l.All())
}

func TestRemoveKeepsOrder(t *testing.T) {
	l := NewList(nil)
	l.Add("A")
	b, _ := l.Add("B")
	l.Add("C")

	require.True(t, l.Remove(b.ID))
	assert.Equal(t, []string{"A", "C"}, texts(l.All()))
	_, ok := l.Get(b.ID)
	assert.False(t, ok)
}

func TestFilteredViews(t *testing.T) {
	l := NewList(nil)
	a, _ := l.Add("A")
	l.Add("B")
	c, _ := l.Add("C")
	l.Add("D")
	l.Toggle(a.ID)
	l.Toggle(c.ID)

	assert.Equal(t, []string{"A", "B", "C", "D"}, texts(l.Filtered(FilterAll)))
	assert.Equal(t, []string{"B", "D"}, texts(l.Filtered(FilterPending)))
	assert.Equal(t, []string{"A", "C"}, texts(l.Filtered(FilterCompleted)))

	for _, task := range l.All() {
		assert.Equal(t, !task.Completed, task.Pending())
	}
}

func TestFilteredEmptyList(t *testing.T) {
	l := NewList(nil)
	assert.Empty(t, l.Filtered(FilterAll))
	assert.Empty(t, l.Filtered(FilterCompleted))
}

func TestCounts(t *testing.T) {
	l := NewList(nil)
	assert.Equal(t, Counts{}, l.Counts())

	a, _ := l.Add("A")
	l.Add("B")
	l.Add("C")
	l.Toggle(a.ID)
	assert.Equal(t, Counts{Total: 3, Pending: 2, Completed: 1}, l.Counts())

	l.Clear()
	assert.Equal(t, Counts{}, l.Counts())
}

func TestAllReturnsCopy(t *testing.T) {
	l := NewList(nil)
	l.Add("A")
	all := l.All()
	all[0].Text = "changed"

	assert.Equal(t, []string{"A"}, texts(l.All()))
}

func TestParseFilter(t *testing.T) {
	assert.Equal(t, FilterPending, ParseFilter("pending"))
	assert.Equal(t, FilterCompleted, ParseFilter(" Completed "))
	assert.Equal(t, FilterAll, ParseFilter("all"))
	assert.Equal(t, FilterAll, ParseFilter("bogus"))
	assert.Equal(t, FilterAll, ParseFilter(""))
	assert.False(t, Filter("bogus").Valid())
}
