package cli

import (
	"bytes"
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktabs/internal/app"
	"tasktabs/internal/config"
)

type env struct {
	dir    string
	config string
}

func newEnv(t *testing.T) env {
	dir := t.TempDir()
	return env{dir: dir, config: filepath.Join(dir, "config.toml")}
}

// run executes the command tree against the temp config and returns exit
// code, stdout and stderr.
func (e env) run(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := Execute(append([]string{"--config", e.config}, args...), Options{
		Stdin:  strings.NewReader(stdin),
		Stdout: &out,
		Stderr: &errOut,
		RunTUI: func(*app.Controller, config.Config) error {
			return errors.New("no terminal in tests")
		},
	})
	return code, out.String(), errOut.String()
}

var addedID = regexp.MustCompile(`Added (\d+)`)

func (e env) add(t *testing.T, text string) string {
	t.Helper()
	code, out, _ := e.run(t, "", "add", text)
	require.Equal(t, 0, code, out)
	m := addedID.FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	return m[1]
}

func TestAddAndList(t *testing.T) {
	e := newEnv(t)

	code, out, _ := e.run(t, "", "add", "Buy", "milk")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "[Tasks (1)]  Pending (1)   Completed (0) ")
	assert.Contains(t, out, "[ ]")
	assert.Contains(t, out, "Buy milk")

	code, out, _ = e.run(t, "", "list")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Buy milk")
	assert.FileExists(t, filepath.Join(e.dir, config.DefaultDBName))
}

func TestListFilter(t *testing.T) {
	e := newEnv(t)
	a := e.add(t, "A")
	e.add(t, "B")

	code, _, _ := e.run(t, "", "toggle", a)
	require.Equal(t, 0, code)

	_, out, _ := e.run(t, "", "list", "--filter", "pending")
	assert.Contains(t, out, "[Pending (1)]")
	assert.Contains(t, out, "B")
	assert.NotContains(t, out, "  A\n")

	_, out, _ = e.run(t, "", "list")
	assert.Contains(t, out, "[Pending (1)]", "filter is persisted")

	code, _, errOut := e.run(t, "", "list", "--filter", "later")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "unknown filter")
}

func TestToggleErrors(t *testing.T) {
	e := newEnv(t)

	code, _, errOut := e.run(t, "", "toggle", "abc")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid task id")

	code, _, errOut = e.run(t, "", "toggle", "42")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "no task with id 42")
}

func TestRmAsksForConfirmation(t *testing.T) {
	e := newEnv(t)
	a := e.add(t, "A")

	code, out, _ := e.run(t, "n\n", "rm", a)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Delete this task? [y/N]")
	assert.Contains(t, out, "Cancelled")

	code, out, _ = e.run(t, "", "rm", a)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Cancelled", "EOF declines")

	code, out, _ = e.run(t, "yes\n", "rm", a)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "No tasks found")
}

func TestRmYesFlag(t *testing.T) {
	e := newEnv(t)
	a := e.add(t, "A")
	e.add(t, "B")

	code, out, _ := e.run(t, "", "rm", "--yes", a)
	require.Equal(t, 0, code)
	assert.NotContains(t, out, "[y/N]")
	assert.Contains(t, out, "Tasks (1)")
}

func TestClear(t *testing.T) {
	e := newEnv(t)
	e.add(t, "A")
	e.add(t, "B")
	e.add(t, "C")

	_, out, _ := e.run(t, "no\n", "clear")
	assert.Contains(t, out, "Clear all tasks? [y/N]")
	assert.Contains(t, out, "Cancelled")

	_, out, _ = e.run(t, "y\n", "clear")
	assert.Contains(t, out, "Tasks (0)")
	assert.Contains(t, out, "No tasks found")

	_, out, _ = e.run(t, "", "list")
	assert.Contains(t, out, "No tasks found")
}

func TestShowHTML(t *testing.T) {
	e := newEnv(t)
	e.add(t, "<b>bold</b> & co")

	code, out, _ := e.run(t, "", "show", "--html")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "&lt;b&gt;bold&lt;/b&gt; &amp; co")
	assert.Contains(t, out, `class="task-item pending"`)

	_, out, _ = e.run(t, "", "show")
	assert.Contains(t, out, "<b>bold</b> & co")
}

func TestUnavailableDatabaseIsNotFatal(t *testing.T) {
	e := newEnv(t)

	code, _, errOut := e.run(t, "", "list")
	require.Equal(t, 0, code)
	assert.Empty(t, errOut)

	// config.toml is a file, so nothing can be created beneath it.
	blocker := filepath.Join(e.dir, "config.toml")
	code, out, errOut := e.run(t, "", "--db", filepath.Join(blocker, "tasks.db"), "add", "x")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Tasks (1)")
	assert.Contains(t, errOut, "storage not available")
}

func TestRootRunsTUI(t *testing.T) {
	e := newEnv(t)

	code, _, errOut := e.run(t, "")

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "no terminal in tests")
}
