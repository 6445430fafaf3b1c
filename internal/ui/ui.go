package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tasktabs/internal/app"
	"tasktabs/internal/config"
	"tasktabs/internal/task"
	"tasktabs/internal/view"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeConfirm
)

type styles struct {
	title     lipgloss.Style
	tab       lipgloss.Style
	activeTab lipgloss.Style
	focused   lipgloss.Style
	completed lipgloss.Style
	empty     lipgloss.Style
	dialog    lipgloss.Style
	status    lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title: lipgloss.NewStyle().Bold(true),
		tab: lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("245")),
		activeTab: lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Underline(true).
			Foreground(lipgloss.Color("212")),
		focused: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),
		completed: lipgloss.NewStyle().
			Strikethrough(true).
			Foreground(lipgloss.Color("240")),
		empty: lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("241")),
		dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1),
		status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
	}
}

// Model is the terminal front end. It holds no task state of its own:
// every action goes through the controller and the returned view is what
// gets drawn.
type Model struct {
	ctrl    *app.Controller
	keys    keyMap
	help    help.Model
	styles  styles
	view    view.View
	cursor  int
	mode    mode
	input   textinput.Model
	pending app.Event
	prompt  string
	status  string
}

func New(ctrl *app.Controller, cfg config.Config) *Model {
	ti := textinput.New()
	ti.Placeholder = "What needs doing?"
	ti.CharLimit = 256
	ti.Width = 40

	m := &Model{
		ctrl:   ctrl,
		keys:   newKeyMap(cfg.Keys),
		help:   help.New(),
		styles: defaultStyles(),
		input:  ti,
		mode:   modeList,
		status: fmt.Sprintf("Press '%s' to add a task.", label(cfg.Keys.Add)),
	}
	m.apply(ctrl.View())
	return m
}

func Run(ctrl *app.Controller, cfg config.Config) error {
	_, err := tea.NewProgram(New(ctrl, cfg), tea.WithAltScreen()).Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.input.Width = max(msg.Width-10, 10)
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeAdd:
			return m.updateAddMode(msg)
		case modeConfirm:
			return m.updateConfirmMode(msg)
		}
		return m.updateListMode(msg)
	}
	return m, nil
}

func (m *Model) updateListMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		m.moveFocus(1)
	case key.Matches(msg, m.keys.Up):
		m.moveFocus(-1)
	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		m.input.SetValue("")
		m.status = "Type a task and press enter"
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Toggle):
		if m.view.Focus == 0 {
			return m, nil
		}
		m.apply(m.ctrl.Dispatch(app.CheckboxToggled{ID: m.view.Focus}, nil))
		m.status = "Toggled task"
	case key.Matches(msg, m.keys.Complete):
		if m.view.Focus == 0 {
			return m, nil
		}
		m.apply(m.ctrl.Dispatch(app.KeyPressed{Key: msg.String()}, nil))
		m.status = "Toggled task"
	case key.Matches(msg, m.keys.Delete):
		if m.view.Focus == 0 {
			return m, nil
		}
		m.ask(app.KeyPressed{Key: msg.String()}, app.PromptDelete)
	case key.Matches(msg, m.keys.ClearAll):
		m.ask(app.ClearAll{}, app.PromptClearAll)
	case key.Matches(msg, m.keys.NextFilter):
		m.selectFilter(m.filterOffset(1))
	case key.Matches(msg, m.keys.PrevFilter):
		m.selectFilter(m.filterOffset(-1))
	case key.Matches(msg, m.keys.ShowAll):
		m.selectFilter(task.FilterAll)
	case key.Matches(msg, m.keys.ShowPending):
		m.selectFilter(task.FilterPending)
	case key.Matches(msg, m.keys.ShowCompleted):
		m.selectFilter(task.FilterCompleted)
	}
	return m, nil
}

func (m *Model) updateAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		text := m.input.Value()
		if strings.TrimSpace(text) == "" {
			return m, nil
		}
		m.apply(m.ctrl.Dispatch(app.Submit{Text: text}, nil))
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		m.status = "Added task"
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateConfirmMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes):
		m.apply(m.ctrl.Dispatch(m.pending, app.Always))
		m.status = "Done"
	case key.Matches(msg, m.keys.No):
		m.status = "Cancelled"
	default:
		return m, nil
	}
	m.mode = modeList
	m.pending = nil
	m.prompt = ""
	return m, nil
}

func (m *Model) ask(ev app.Event, prompt string) {
	m.mode = modeConfirm
	m.pending = ev
	m.prompt = prompt
}

// moveFocus focuses the row delta away from the cursor. Without a focused
// row the row under the cursor is focused first.
func (m *Model) moveFocus(delta int) {
	if m.view.Empty() {
		return
	}
	next := m.cursor
	if m.view.Focus != 0 {
		next = clampCursor(m.cursor+delta, len(m.view.Rows))
	}
	m.apply(m.ctrl.Dispatch(app.RowFocused{ID: m.view.Rows[next].ID}, nil))
}

func (m *Model) selectFilter(f task.Filter) {
	m.apply(m.ctrl.Dispatch(app.SelectFilter{Filter: f}, nil))
	m.status = "Showing " + string(f)
}

func (m *Model) filterOffset(delta int) task.Filter {
	filters := task.Filters()
	for i, f := range filters {
		if f == m.view.Filter {
			return filters[wrapIndex(i+delta, len(filters))]
		}
	}
	return task.FilterAll
}

func (m *Model) apply(v view.View) {
	m.view = v
	if i := v.Index(v.Focus); i >= 0 {
		m.cursor = i
		return
	}
	m.cursor = clampCursor(m.cursor, len(v.Rows))
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("Todo"))
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.view.Empty() {
		b.WriteString(m.styles.empty.Render(view.Placeholder))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderTaskList())
	}

	b.WriteString("\n")
	switch m.mode {
	case modeAdd:
		b.WriteString(m.styles.dialog.Render("New task\n" + m.input.View()))
	case modeConfirm:
		b.WriteString(m.styles.dialog.Render(m.prompt + " y/n"))
	default:
		b.WriteString(m.styles.status.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, len(m.view.Tabs))
	for _, t := range m.view.Tabs {
		style := m.styles.tab
		if t.Active {
			style = m.styles.activeTab
		}
		tabs = append(tabs, style.Render(t.Title()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderTaskList() string {
	var b strings.Builder
	for _, r := range m.view.Rows {
		cursor := " "
		if r.ID == m.view.Focus {
			cursor = ">"
		}
		checkbox := "[ ]"
		if r.Completed {
			checkbox = "[x]"
		}
		text := view.Sanitize(r.Text)
		switch {
		case r.ID == m.view.Focus:
			text = m.styles.focused.Render(text)
		case r.Completed:
			text = m.styles.completed.Render(text)
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n", cursor, checkbox, text))
	}
	return b.String()
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
