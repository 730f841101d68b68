package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/qntx-github/am"
	"github.com/teranos/qntx-github/display"
	"github.com/teranos/qntx-github/errors"
	"github.com/teranos/qntx-github/gh"
	"github.com/teranos/qntx-github/gitx"
	"github.com/teranos/qntx-github/inspect"
	"github.com/teranos/qntx-github/logger"
)

// ErrIssuesFound signals that the inspection completed but the PR needs
// attention. main maps it to exit code 1; execution errors get 2.
var ErrIssuesFound = errors.New("pull request has outstanding issues")

// RegisterInspectFlags adds the inspection flags to the root command
func RegisterInspectFlags(cmd *cobra.Command) {
	cmd.Flags().String("pr", "", "PR number or URL (default: the current branch's PR)")
	cmd.Flags().String("mode", "all", "Inspections to run: checks, conflicts, reviews, or all")
	cmd.Flags().Int("max-lines", am.DefaultMaxLines, "Max lines per CI log excerpt")
	cmd.Flags().Int("context", am.DefaultContextLines, "Lines of context around a failure marker")
	cmd.Flags().Bool("json", false, "Output the report as JSON")
	cmd.Flags().Bool("resolve-threads", false, "Mark all unresolved review threads as resolved")
	cmd.Flags().String("add-comment", "", "Post a comment on the PR after inspecting")
}

// RunInspect is the root command's RunE: inspect the PR attached to the
// repository at args[0] (default ".").
func RunInspect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	repoPath := "."
	if len(args) > 0 {
		repoPath = args[0]
	}
	root, err := gitx.FindRoot(repoPath)
	if err != nil {
		return err
	}
	log := logger.ComponentLogger("cli")
	if branch, err := gitx.CurrentBranch(root); err == nil {
		log.Debugw("Repository resolved", logger.FieldRepo, root, logger.FieldBranch, branch)
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
	if err := gh.EnsureAuthenticated(ctx, runner); err != nil {
		return err
	}

	prFlag, _ := cmd.Flags().GetString("pr")
	pr, err := gh.ResolvePR(ctx, runner, prFlag)
	if err != nil {
		return err
	}

	modeFlag, _ := cmd.Flags().GetString("mode")
	mode, err := inspect.ParseMode(modeFlag)
	if err != nil {
		return err
	}

	opts := inspect.Options{Mode: mode}
	opts.MaxLines, _ = cmd.Flags().GetInt("max-lines")
	opts.ContextLines, _ = cmd.Flags().GetInt("context")
	opts.ResolveThreads, _ = cmd.Flags().GetBool("resolve-threads")
	if !cmd.Flags().Changed("max-lines") && cfg.Inspect.MaxLines > 0 {
		opts.MaxLines = cfg.Inspect.MaxLines
	}
	if !cmd.Flags().Changed("context") && cfg.Inspect.ContextLines > 0 {
		opts.ContextLines = cfg.Inspect.ContextLines
	}

	jsonOutput := display.ShouldOutputJSON(cmd)

	var spinner *pterm.SpinnerPrinter
	if !jsonOutput {
		spinner, _ = pterm.DefaultSpinner.Start(fmt.Sprintf("Inspecting PR %s (%s)...", pr, mode))
	}

	inspector := inspect.NewInspector(runner, nil)
	report, err := inspector.Inspect(ctx, pr, opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	if comment, _ := cmd.Flags().GetString("add-comment"); comment != "" {
		if err := inspector.AddComment(ctx, pr, comment); err != nil {
			return err
		}
		if !jsonOutput {
			pterm.Success.Printfln("Comment posted on PR %s", pr)
		}
	}

	if jsonOutput {
		if err := display.OutputJSON(report); err != nil {
			return err
		}
	} else {
		fmt.Print(inspect.RenderText(report))
	}

	if report.HasIssues() {
		return ErrIssuesFound
	}
	return nil
}
