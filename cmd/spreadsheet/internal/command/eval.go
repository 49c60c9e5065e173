package command

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noel-yap/spreadsheet/cmd/spreadsheet/internal/loader"
)

func NewEvalCommand(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval ADDR=CONTENT...",
		Short: "Evaluate cell assignments and print the sheet",
		Long: Highlight("spreadsheet eval ADDR=CONTENT...") + "\n\n" +
			"Apply each assignment in order to an empty sheet, then print every cell.\n" +
			"CONTENT is an integer literal or a formula starting with '='.\n\n" +
			"Examples:\n" +
			"  spreadsheet eval A1=2 B1==A1*3\n" +
			"  spreadsheet eval -o json 'C1==(A1+B1)/2' A1=4 B1=8\n",
		Args: MinArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunEval(cli, args)
		},
	}
	return cmd
}

func RunEval(cli *CLI, args []string) error {
	assignments := make([]loader.Assignment, 0, len(args))
	for _, arg := range args {
		a, err := ParseAssignment(arg)
		if err != nil {
			return err
		}
		assignments = append(assignments, a)
	}

	sheet := newSheet(cli)
	if err := applyAssignments(cli, sheet, assignments); err != nil {
		return err
	}

	renderSheet(cli, sheet)
	return nil
}

// ParseAssignment splits ADDR=CONTENT at the first '='. A formula therefore
// reads A1==B1+1.
func ParseAssignment(arg string) (loader.Assignment, error) {
	addr, contents, ok := strings.Cut(arg, "=")
	addr = strings.TrimSpace(addr)
	if !ok || addr == "" {
		return loader.Assignment{}, fmt.Errorf("expected ADDR=CONTENT, got %q", arg)
	}
	return loader.Assignment{Address: addr, Contents: strings.TrimSpace(contents)}, nil
}
