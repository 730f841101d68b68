package gh

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/teranos/qntx-github/errors"
)

// EnsureAuthenticated verifies gh is installed and logged in.
// Mirrors the preflight the inspection workflow documents: without
// credentials every later query fails with a less useful message.
func EnsureAuthenticated(ctx context.Context, r Runner) error {
	result, err := r.Run(ctx, "auth", "status")
	if err != nil {
		return err
	}
	if result.Failed() {
		err := errors.Wrap(errors.ErrUnauthenticated, result.Message())
		return errors.WithHint(err, "run 'gh auth login' and retry")
	}
	return nil
}

// RepoSlug returns the repository's "owner/name" via gh
func RepoSlug(ctx context.Context, r Runner) (string, error) {
	result, err := r.Run(ctx, "repo", "view", "--json", "nameWithOwner")
	if err != nil {
		return "", err
	}
	if result.Failed() {
		return "", errors.WrapGh(nil, result.Message(), "resolving repository slug")
	}

	var data struct {
		NameWithOwner string `json:"nameWithOwner"`
	}
	if err := json.Unmarshal([]byte(result.Stdout), &data); err != nil {
		return "", errors.Wrap(errors.ErrBadResponse, "repo view returned invalid JSON")
	}
	if data.NameWithOwner == "" {
		return "", errors.Wrap(errors.ErrBadResponse, "repo view returned no nameWithOwner")
	}
	return data.NameWithOwner, nil
}

// ParseOwnerName splits an "owner/repo" slug
func ParseOwnerName(slug string) (string, string, error) {
	parts := strings.Split(slug, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Newf("malformed repository slug %q", slug)
	}
	return parts[0], parts[1], nil
}

// ResolvePR normalizes the --pr value. An explicit number or URL passes
// through unchanged (gh accepts both); empty means "the current
// branch's PR", resolved via gh pr view.
func ResolvePR(ctx context.Context, r Runner, value string) (string, error) {
	if value != "" {
		return value, nil
	}

	result, err := r.Run(ctx, "pr", "view", "--json", "number")
	if err != nil {
		return "", err
	}
	if result.Failed() {
		err := errors.Wrap(errors.ErrNoPullRequest, result.Message())
		return "", errors.WithHint(err, "pass --pr <number-or-url> or check out a branch with an open PR")
	}

	var data struct {
		Number int `json:"number"`
	}
	if err := json.Unmarshal([]byte(result.Stdout), &data); err != nil {
		return "", errors.Wrap(errors.ErrBadResponse, "pr view returned invalid JSON")
	}
	if data.Number == 0 {
		return "", errors.Wrap(errors.ErrNoPullRequest, "pr view returned no PR number")
	}
	return strconv.Itoa(data.Number), nil
}
