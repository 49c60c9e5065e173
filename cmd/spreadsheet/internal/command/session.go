package command

import (
	"strings"

	"github.com/fatih/color"

	"github.com/noel-yap/spreadsheet/packages/spreadsheet"
)

const replHelp = `Commands:
  ADDR CONTENT   set a cell, e.g. A1 =B1+2
  ADDR           print the value of a cell
  :cells         print every cell
  :deps ADDR     print ADDR and its dependents in recalculation order
  :clear ADDR    reset a cell to empty
  :help          show this help
  :quit          exit`

// Session holds the sheet behind an interactive prompt. it is kept apart from
// line editing so it can be driven from tests.
type Session struct {
	cli   *CLI
	sheet *spreadsheet.Sheet
}

func NewSession(cli *CLI) *Session {
	return &Session{
		cli:   cli,
		sheet: newSheet(cli),
	}
}

func (s *Session) Sheet() *spreadsheet.Sheet {
	return s.sheet
}

// Exec runs one input line and reports whether the session should end.
func (s *Session) Exec(line string) (quit bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if strings.HasPrefix(line, ":") {
		return s.execCommand(line)
	}

	addr, contents, hasContents := strings.Cut(line, " ")
	if !hasContents {
		v, err := s.sheet.GetVal(addr)
		if err != nil {
			s.printErr(err)
			return false
		}
		s.cli.Println(v)
		return false
	}

	if err := s.sheet.SetContents(addr, strings.TrimSpace(contents)); err != nil {
		s.printErr(err)
	}
	return false
}

func (s *Session) execCommand(line string) (quit bool) {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case ":quit", ":q", ":exit":
		return true
	case ":help":
		s.cli.Println(replHelp)
	case ":cells":
		renderSheet(s.cli, s.sheet)
	case ":deps":
		if len(fields) != 2 {
			s.cli.Println("usage: :deps ADDR")
			return false
		}
		deps, err := s.sheet.SortedDependents(fields[1])
		if err != nil {
			s.printErr(err)
			return false
		}
		names := make([]string, len(deps))
		for i, a := range deps {
			names[i] = a.String()
		}
		s.cli.Println(strings.Join(names, " "))
	case ":clear":
		if len(fields) != 2 {
			s.cli.Println("usage: :clear ADDR")
			return false
		}
		if err := s.sheet.Clear(fields[1]); err != nil {
			s.printErr(err)
		}
	default:
		s.cli.Println("unknown command. Type :help for a list.")
	}
	return false
}

func (s *Session) printErr(err error) {
	s.cli.Println(color.RedString("Error: %s", err))
}
