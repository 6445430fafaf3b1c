package view

import (
	"fmt"
	"strings"
)

// HTML renders the view as a markup fragment: the tab bar followed by the
// display container.
func (v View) HTML() string {
	var b strings.Builder

	b.WriteString(`<nav class="tabs">` + "\n")
	for _, t := range v.Tabs {
		class := "tab"
		if t.Active {
			class += " active"
		}
		fmt.Fprintf(&b, "  <button class=%q data-filter=%q>%s</button>\n", class, t.Filter, Escape(t.Title()))
	}
	b.WriteString("</nav>\n")

	b.WriteString(`<div class="display">` + "\n")
	if v.Empty() {
		fmt.Fprintf(&b, "  <p class=\"no-tasks\">%s</p>\n", Placeholder)
	}
	for _, r := range v.Rows {
		state, checked := "pending", ""
		if r.Completed {
			state, checked = "completed", " checked"
		}
		focus := ""
		if r.ID == v.Focus {
			focus = " autofocus"
		}
		fmt.Fprintf(&b, "  <div class=\"task-item %s\" data-id=\"%d\" tabindex=\"0\"%s>\n", state, r.ID, focus)
		b.WriteString(`    <label class="task-checkbox">` + "\n")
		fmt.Fprintf(&b, "      <span class=\"task-text\">%s</span>\n", Escape(r.Text))
		fmt.Fprintf(&b, "      <input type=\"checkbox\" class=\"check\"%s data-id=\"%d\">\n", checked, r.ID)
		b.WriteString("    </label>\n")
		b.WriteString("  </div>\n")
	}
	b.WriteString("</div>\n")
	return b.String()
}
