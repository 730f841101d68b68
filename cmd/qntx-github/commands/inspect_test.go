package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/qntx-github/errors"
)

func TestRegisterInspectFlagDefaults(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	RegisterInspectFlags(cmd)

	pr, err := cmd.Flags().GetString("pr")
	require.NoError(t, err)
	assert.Empty(t, pr)

	mode, err := cmd.Flags().GetString("mode")
	require.NoError(t, err)
	assert.Equal(t, "all", mode)

	maxLines, err := cmd.Flags().GetInt("max-lines")
	require.NoError(t, err)
	assert.Equal(t, 160, maxLines)

	context, err := cmd.Flags().GetInt("context")
	require.NoError(t, err)
	assert.Equal(t, 30, context)

	resolve, err := cmd.Flags().GetBool("resolve-threads")
	require.NoError(t, err)
	assert.False(t, resolve)
}

func TestIssuesFoundIsNotExecutionError(t *testing.T) {
	// exit code 1 (issues) must stay distinct from exit code 2 (errors)
	assert.False(t, errors.IsExecutionError(ErrIssuesFound))
	assert.True(t, errors.Is(errors.Wrap(ErrIssuesFound, "wrapped"), ErrIssuesFound))
}
