package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noel-yap/spreadsheet/cmd/spreadsheet/internal/loader"
)

type RunOptions struct {
	Path string
}

func NewRunCommand(cli *CLI) *cobra.Command {
	var opts RunOptions

	cmd := &cobra.Command{
		Use:   "run PATH",
		Short: "Apply a YAML script of cell assignments",
		Long: Highlight("spreadsheet run PATH") + "\n\n" +
			"Load cell assignments from a YAML script and apply them in order.\n" +
			"When PATH is a directory, all .yaml and .yml files are applied to the\n" +
			"same sheet in file name order.\n\n" +
			"Script format:\n" +
			"  cells:\n" +
			"  - address: A1\n" +
			"    contents: \"2\"\n" +
			"  - address: B1\n" +
			"    contents: =A1*3\n",
		Args: ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Path = args[0]
			return RunScripts(cli, opts)
		},
	}
	return cmd
}

func RunScripts(cli *CLI, opts RunOptions) error {
	scripts, err := loader.LoadScripts(opts.Path)
	if err != nil {
		return err
	}
	if len(scripts) == 0 {
		return fmt.Errorf("no YAML files found in %q", opts.Path)
	}

	sheet := newSheet(cli)
	for _, script := range scripts {
		if err := applyAssignments(cli, sheet, script.Cells); err != nil {
			return err
		}
	}

	renderSheet(cli, sheet)
	return nil
}
