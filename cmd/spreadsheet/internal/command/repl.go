package command

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

const (
	historyFile = ".spreadsheet_history"
	prompt      = "> "
)

type ReplOptions struct {
	HistoryPath string
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFile)
}

func NewReplCommand(cli *CLI) *cobra.Command {
	opts := ReplOptions{
		HistoryPath: defaultHistoryPath(),
	}

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Edit a sheet interactively",
		Long: Highlight("spreadsheet repl") + "\n\n" +
			"Start an interactive session on an empty sheet.\n\n" +
			replHelp + "\n",
		Args: MaxArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunRepl(cli, opts)
		},
	}

	cmd.Flags().StringVar(&opts.HistoryPath, "history", opts.HistoryPath, "File to keep prompt history in; empty disables history")
	return cmd
}

func RunRepl(cli *CLI, opts ReplOptions) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if opts.HistoryPath != "" {
		if f, err := os.Open(opts.HistoryPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			f, err := os.Create(opts.HistoryPath)
			if err != nil {
				cli.Logger().Warn("saving history", "path", opts.HistoryPath, "error", err)
				return
			}
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}()
	}

	session := NewSession(cli)
	cli.Println("Type :help for commands, :quit to exit.")

	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			cli.Println()
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		if session.Exec(line) {
			return nil
		}
		if line != "" {
			ln.AppendHistory(line)
		}
	}
}
