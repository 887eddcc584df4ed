package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/bomscope/internal/cli"
)

func TestMainVersion(t *testing.T) {
	t.Chdir(t.TempDir())

	stdout := new(bytes.Buffer)
	cmd := cli.NewRootCmd()
	cmd.SetOut(stdout)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "bomscope")
}
