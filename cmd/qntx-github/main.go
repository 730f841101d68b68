package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/qntx-github/cmd/qntx-github/commands"
	"github.com/teranos/qntx-github/errors"
	"github.com/teranos/qntx-github/logger"
)

var rootCmd = &cobra.Command{
	Use:   "qntx-github [repo-path]",
	Short: "qntx-github - Pull request inspection for agent-driven CI fixing",
	Long: `qntx-github inspects a pull request in one pass: merge conflicts,
change requests, unresolved review threads, and CI failures with log
excerpts around the failure point.

Exit codes:
  0  PR is clean
  1  issues found (conflicts, change requests, threads, or CI failures)
  2  execution error (no repo, no PR, gh missing or unauthenticated)

Examples:
  qntx-github                          # inspect the current branch's PR
  qntx-github --pr 142 --mode checks   # CI failures only
  qntx-github --json                   # machine-readable report
  qntx-github --resolve-threads        # resolve all review threads
  qntx-github mcp                      # serve tools over MCP`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		if err := logger.Initialize(false, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	RunE: commands.RunInspect,
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase log verbosity (repeat for more detail: -v, -vv, -vvv)")

	commands.RegisterInspectFlags(rootCmd)

	rootCmd.AddCommand(commands.VersionCmd)
	rootCmd.AddCommand(commands.McpCmd)
}

func main() {
	code := run()
	logger.Cleanup()
	os.Exit(code)
}

func run() int {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, commands.ErrIssuesFound) {
			return 1
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		return 2
	}
	return 0
}
