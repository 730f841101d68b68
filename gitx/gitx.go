// Package gitx provides local git repository discovery for the
// inspection CLI: locating the repository root and the checked-out
// branch without shelling out to git.
package gitx

import (
	"path/filepath"

	"github.com/go-git/go-git/v5"

	"github.com/teranos/qntx-github/errors"
)

// FindRoot locates the working-tree root containing path, walking up
// the directory tree the way git rev-parse --show-toplevel does.
func FindRoot(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "resolving %s", path)
	}

	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return "", errors.Wrapf(errors.ErrNotRepository, "%s", abs)
		}
		return "", errors.Wrapf(err, "opening repository at %s", abs)
	}

	wt, err := repo.Worktree()
	if err != nil {
		// Bare repositories have no worktree; the inspection workflow
		// needs a checkout to resolve the current branch's PR.
		return "", errors.Wrapf(errors.ErrNotRepository, "%s has no worktree", abs)
	}

	return wt.Filesystem.Root(), nil
}

// CurrentBranch returns the short name of the checked-out branch at root.
// Detached HEAD returns an error: there is no branch to resolve a PR for.
func CurrentBranch(root string) (string, error) {
	repo, err := git.PlainOpen(root)
	if err != nil {
		return "", errors.Wrapf(errors.ErrNotRepository, "%s", root)
	}

	head, err := repo.Head()
	if err != nil {
		return "", errors.Wrapf(err, "reading HEAD of %s", root)
	}

	if !head.Name().IsBranch() {
		return "", errors.Newf("HEAD is detached at %s", head.Hash().String()[:7])
	}

	return head.Name().Short(), nil
}
