package command_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noel-yap/spreadsheet/cmd/spreadsheet/internal/command"
	"github.com/noel-yap/spreadsheet/cmd/spreadsheet/internal/view"
)

func newSession() (*bytes.Buffer, *command.Session) {
	buf := new(bytes.Buffer)
	cli := command.NewCLI(view.ViewHuman, buf, view.LogLevelSilent)
	return buf, command.NewSession(cli)
}

func TestSession_SetAndPrint(t *testing.T) {
	buf, s := newSession()

	assert.False(t, s.Exec("A1 =B1+2"))
	assert.False(t, s.Exec("B1 40"))
	assert.Empty(t, buf.String())

	assert.False(t, s.Exec("A1"))
	assert.Equal(t, "42\n", buf.String())

	buf.Reset()
	assert.False(t, s.Exec("   "))
	assert.False(t, s.Exec("C1 = A1 - 2"))
	assert.False(t, s.Exec("C1"))
	assert.Equal(t, "40\n", buf.String())
}

func TestSession_Errors(t *testing.T) {
	buf, s := newSession()

	s.Exec("A1 =A2")
	s.Exec("A2 =A1")
	assert.Contains(t, buf.String(), "Error: cyclic reference detected")

	buf.Reset()
	s.Exec("a1")
	assert.Contains(t, buf.String(), "Error: malformed address")

	buf.Reset()
	s.Exec("A3 =(1")
	assert.Contains(t, buf.String(), "Error: mismatched parentheses")
}

func TestSession_Commands(t *testing.T) {
	buf, s := newSession()
	s.Exec("B1 =A1+1")
	s.Exec("C1 =B1*2")
	s.Exec("A1 3")

	s.Exec(":deps A1")
	assert.Equal(t, "A1 B1 C1\n", buf.String())

	buf.Reset()
	s.Exec(":cells")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[2], "8")

	buf.Reset()
	s.Exec(":clear A1")
	s.Exec("C1")
	assert.Equal(t, "2\n", buf.String())

	buf.Reset()
	s.Exec(":deps")
	s.Exec(":bogus")
	s.Exec(":help")
	out := buf.String()
	assert.Contains(t, out, "usage: :deps ADDR")
	assert.Contains(t, out, "unknown command")
	assert.Contains(t, out, ":quit")

	assert.True(t, s.Exec(":quit"))
	assert.True(t, s.Exec(":Q"))
}
