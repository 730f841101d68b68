// Package gh drives the GitHub CLI for PR inspection workflows.
//
// All GitHub access goes through the gh binary rather than direct API
// calls: gh owns credential storage, host selection, and enterprise
// support, and the inspection workflow only needs the surfaces gh
// already exposes (pr view, pr checks, run view, api, api graphql).
//
// Usage:
//
//	runner, err := gh.NewCLIRunner(repoRoot, gh.CLIOptions{})
//	if err := gh.EnsureAuthenticated(ctx, runner); err != nil { ... }
//	slug, err := gh.RepoSlug(ctx, runner)
//
// The Runner interface exists so the inspection logic can be tested
// against canned gh output without a network or a gh install.
package gh
