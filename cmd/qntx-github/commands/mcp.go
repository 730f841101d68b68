package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/qntx-github/am"
	"github.com/teranos/qntx-github/gh"
	"github.com/teranos/qntx-github/gitx"
	"github.com/teranos/qntx-github/inspect"
)

// McpCmd serves the PR inspection tools over the Model Context Protocol
var McpCmd = &cobra.Command{
	Use:   "mcp [repo-path]",
	Short: "Serve PR inspection tools over MCP (stdio)",
	Long: `Start a Model Context Protocol server on stdio exposing the
inspect_pr, resolve_pr_threads, and add_pr_comment tools. Intended to be
registered as an MCP server in a coding assistant's configuration.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repoPath := "."
		if len(args) > 0 {
			repoPath = args[0]
		}
		root, err := gitx.FindRoot(repoPath)
		if err != nil {
			return err
		}

		cfg, err := am.Load()
		if err != nil {
			return err
		}

		runner, err := gh.NewCLIRunner(root, gh.CLIOptions{
			Command:           cfg.GitHub.Command,
			Token:             cfg.GitHub.Token,
			RequestsPerMinute: cfg.GitHub.RequestsPerMinute,
		})
		if err != nil {
			return err
		}

		return inspect.NewMCPServer(runner).Serve()
	},
}
