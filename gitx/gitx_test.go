package gitx

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/qntx-github/errors"
)

// initTestRepo creates a repository with a single commit on the default branch
func initTestRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	path := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(path, []byte("# test\n"), 0o644))
	_, err = wt.Add("README.md")
	require.NoError(t, err)

	_, err = wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "tester",
			Email: "tester@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)

	return dir
}

func TestFindRoot(t *testing.T) {
	root := initTestRepo(t)

	t.Run("from root", func(t *testing.T) {
		found, err := FindRoot(root)
		require.NoError(t, err)
		assertSamePath(t, root, found)
	})

	t.Run("from nested directory", func(t *testing.T) {
		nested := filepath.Join(root, "a", "b")
		require.NoError(t, os.MkdirAll(nested, 0o755))

		found, err := FindRoot(nested)
		require.NoError(t, err)
		assertSamePath(t, root, found)
	})

	t.Run("not a repository", func(t *testing.T) {
		_, err := FindRoot(t.TempDir())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrNotRepository))
	})
}

func TestCurrentBranch(t *testing.T) {
	root := initTestRepo(t)

	branch, err := CurrentBranch(root)
	require.NoError(t, err)
	// go-git initializes the default branch as master
	assert.Equal(t, "master", branch)
}

func TestCurrentBranchNonRepo(t *testing.T) {
	_, err := CurrentBranch(t.TempDir())
	assert.True(t, errors.Is(err, errors.ErrNotRepository))
}

// assertSamePath compares paths after symlink resolution (macOS /tmp is a symlink)
func assertSamePath(t *testing.T, want, got string) {
	t.Helper()
	wantResolved, err := filepath.EvalSymlinks(want)
	require.NoError(t, err)
	gotResolved, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	assert.Equal(t, wantResolved, gotResolved)
}
