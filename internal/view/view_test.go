package view

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktabs/internal/task"
)

type recordingSaver struct {
	calls [][]task.Task
}

func (s *recordingSaver) SaveTasks(tasks []task.Task) {
	s.calls = append(s.calls, tasks)
}

func titles(v View) []string {
	var out []string
	for _, t := range v.Tabs {
		out = append(out, t.Title())
	}
	return out
}

func activeTabs(v View) []task.Filter {
	var out []task.Filter
	for _, t := range v.Tabs {
		if t.Active {
			out = append(out, t.Filter)
		}
	}
	return out
}

func TestRenderTabLabels(t *testing.T) {
	l := task.NewList(nil)
	l.Add("Buy milk")

	v := NewRenderer(nil).Render(l, task.FilterAll, 0)

	assert.Equal(t, []string{"Tasks (1)", "Pending (1)", "Completed (0)"}, titles(v))
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "Buy milk", v.Rows[0].Text)
}

func TestRenderMarksOnlyActiveTab(t *testing.T) {
	l := task.NewList(nil)
	for _, f := range task.Filters() {
		v := NewRenderer(nil).Render(l, f, 0)
		assert.Equal(t, []task.Filter{f}, activeTabs(v))
	}
}

func TestRenderEmptyViewShowsPlaceholder(t *testing.T) {
	l := task.NewList(nil)
	l.Add("pending one")

	v := NewRenderer(nil).Render(l, task.FilterCompleted, 0)

	assert.True(t, v.Empty())
	assert.Contains(t, v.HTML(), `<p class="no-tasks">No tasks found</p>`)
	assert.NotContains(t, v.HTML(), "task-item")
	assert.Equal(t, []string{"Tasks (1)", "Pending (1)", "Completed (0)"}, titles(v))
}

func TestRenderKeepsFilteredOrder(t *testing.T) {
	l := task.NewList(nil)
	a, _ := l.Add("A")
	l.Add("B")
	c, _ := l.Add("C")
	l.Toggle(a.ID)
	l.Toggle(c.ID)

	v := NewRenderer(nil).Render(l, task.FilterCompleted, 0)

	require.Len(t, v.Rows, 2)
	assert.Equal(t, Row{ID: a.ID, Text: "A", Completed: true}, v.Rows[0])
	assert.Equal(t, Row{ID: c.ID, Text: "C", Completed: true}, v.Rows[1])
}

func TestRenderFocus(t *testing.T) {
	l := task.NewList(nil)
	a, _ := l.Add("A")
	b, _ := l.Add("B")
	l.Toggle(b.ID)
	r := NewRenderer(nil)

	assert.Equal(t, b.ID, r.Render(l, task.FilterAll, b.ID).Focus)
	assert.Zero(t, r.Render(l, task.FilterPending, b.ID).Focus, "focused row filtered out")
	assert.Zero(t, r.Render(l, task.FilterAll, 999).Focus, "unknown id")
	assert.Zero(t, r.Render(l, task.FilterAll, 0).Focus)
	assert.Equal(t, a.ID, r.Render(l, task.FilterPending, a.ID).Focus)
}

func TestRenderPersistsEveryTime(t *testing.T) {
	s := &recordingSaver{}
	r := NewRenderer(s)
	l := task.NewList(nil)

	r.Render(l, task.FilterAll, 0)
	l.Add("A")
	r.Render(l, task.FilterCompleted, 0)

	require.Len(t, s.calls, 2)
	assert.Empty(t, s.calls[0])
	require.Len(t, s.calls[1], 1)
	assert.Equal(t, "A", s.calls[1][0].Text)
}

func TestEscape(t *testing.T) {
	assert.Equal(t, "&lt;script&gt;alert(&quot;x&quot;)&lt;/script&gt;", Escape(`<script>alert("x")</script>`))
	assert.Equal(t, "Tom &amp; Jerry&#39;s", Escape("Tom & Jerry's"))
	assert.Equal(t, "&amp;amp;", Escape("&amp;"))
	assert.Equal(t, "", Escape(""))
}

func TestHTMLEscapesTaskText(t *testing.T) {
	l := task.NewList(nil)
	a, _ := l.Add(`<img src=x onerror="boom">`)
	l.Toggle(a.ID)

	html := NewRenderer(nil).Render(l, task.FilterAll, a.ID).HTML()

	assert.NotContains(t, html, "<img")
	assert.Contains(t, html, "&lt;img src=x onerror=&quot;boom&quot;&gt;")
	assert.Contains(t, html, `class="task-item completed"`)
	assert.Contains(t, html, " checked ")
	assert.Contains(t, html, `tabindex="0" autofocus>`)
	assert.Contains(t, html, `<button class="tab active" data-filter="all">Tasks (1)</button>`)
	assert.Equal(t, 1, strings.Count(html, "active"))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "red text", Sanitize("\x1b[31mred\x1b[0m text"))
	assert.Equal(t, "a b", Sanitize("a\tb"))
	assert.Equal(t, "ab", Sanitize("a\x07\x00b\r\n"))
	assert.Equal(t, "héllo ✓", Sanitize("héllo ✓"))
}
