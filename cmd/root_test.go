package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmdRegistersFlagsWithDefaults(t *testing.T) {
	root := NewRootCmd()

	acars, err := root.Flags().GetBool("acars")
	require.NoError(t, err)
	assert.True(t, acars)

	ttl, err := root.Flags().GetDuration("dedupe-ttl")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, ttl)

	level, err := root.Flags().GetString("log-level")
	require.NoError(t, err)
	assert.Equal(t, "info", level)

	diagnostic, err := root.Flags().GetBool("diagnostic")
	require.NoError(t, err)
	assert.False(t, diagnostic)
}

func TestRunRootRequiresFrontendFlag(t *testing.T) {
	flagFrontend = ""
	root := NewRootCmd()
	root.SetArgs([]string{})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--frontend")
}
