package cmd

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	RootCmd.SetArgs([]string{"version"})
	execErr := RootCmd.Execute()

	require.NoError(t, w.Close())
	os.Stdout = old
	require.NoError(t, execErr)

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Contains(t, string(out), "Version: ")
	require.Contains(t, string(out), "OS/Arch: ")
}
