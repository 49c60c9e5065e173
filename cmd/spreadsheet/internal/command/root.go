package command

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"sigs.k8s.io/release-utils/version"

	"github.com/noel-yap/spreadsheet/cmd/spreadsheet/internal/view"
)

var (
	outputFlag string
	debugFlag  bool
	rootCmd    *cobra.Command
)

func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use: "spreadsheet",
		Short: color.RGB(50, 108, 229).Sprintf("spreadsheet [global options] <subcommand> [args]") + "\n" +
			"An incremental integer spreadsheet engine",
		Long: color.RGB(50, 108, 229).Sprintf("Usage: spreadsheet [global options] <subcommand> [args]\n") + "\n" +
			"spreadsheet evaluates cells holding integers or formulas built from\n" +
			"integers, cell references, + - * / and parentheses. Changing a cell\n" +
			"recomputes only the cells that depend on it, and edits that would\n" +
			"create a cycle are rejected without changing the sheet.\n\n",
		Version:       version.GetVersionInfo().GitVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				_ = cmd.Help()
			}
		},
	}

	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", "", "Output format. One of: (human | json | yaml)")
	cmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Set log level to debug")
	return cmd
}

func setCobraUsageTemplate() {
	cobra.AddTemplateFunc("StyleHeading", color.RGB(50, 108, 229).SprintFunc())
	usageTemplate := rootCmd.UsageTemplate()
	usageTemplate = strings.NewReplacer(
		`Usage:`, `{{StyleHeading "Usage:"}}`,
		`Examples:`, `{{StyleHeading "Examples:"}}`,
		`Available Commands:`, `{{StyleHeading "Available Commands:"}}`,
		`Additional Commands:`, `{{StyleHeading "Additional Commands:"}}`,
		`Flags:`, `{{StyleHeading "Options:"}}`,
		`Global Flags:`, `{{StyleHeading "Global Options:"}}`,
	).Replace(usageTemplate)
	rootCmd.SetUsageTemplate(usageTemplate)
}

func setVersionTemplate() {
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// LogLevelFromEnv maps SPREADSHEET_LOG to a log level. Unknown or empty
// values keep the CLI silent.
func LogLevelFromEnv(value string) view.LogLevel {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return view.LogLevelDebug
	case "info":
		return view.LogLevelInfo
	case "warn":
		return view.LogLevelWarn
	case "error":
		return view.LogLevelError
	default:
		return view.LogLevelSilent
	}
}

// Configure points cli at w with the view and log level selected by the
// output format, SPREADSHEET_LOG and --debug.
func Configure(cli *CLI, w io.Writer, output string, debug bool) error {
	viewType, err := view.ParseOutputFormat(output)
	if err != nil {
		return fmt.Errorf("invalid output format: %w", err)
	}

	logLevel := LogLevelFromEnv(os.Getenv("SPREADSHEET_LOG"))
	if debug {
		logLevel = view.LogLevelDebug
	}

	s := view.NewStream(w)
	cli.Viewer = view.NewViewer(viewType, s, logLevel)
	cli.Stream = s
	return nil
}

func Execute() {
	rootCmd = NewRootCommand()

	// Templates are used to standardize the output format of spreadsheet.
	setCobraUsageTemplate()
	setVersionTemplate()

	// Disable color output if NO_COLOR is set in the environment
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		color.NoColor = true
	}

	// The viewer is reconfigured in PersistentPreRunE once flags are parsed
	cli := NewCLI(view.ViewHuman, os.Stdout, view.LogLevelSilent)

	AddCommands(rootCmd, cli)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return Configure(cli, os.Stdout, outputFlag, debugFlag)
	}

	if err := rootCmd.Execute(); err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, color.RedString("Error: %s", msg))
		}
		os.Exit(1)
	}

	os.Exit(0)
}

// AddCommands registers all subcommands to the root command.
func AddCommands(root *cobra.Command, cli *CLI) {
	root.AddCommand(
		NewVersionCommand(cli),
		NewEvalCommand(cli),
		NewRunCommand(cli),
		NewReplCommand(cli),
	)
}
