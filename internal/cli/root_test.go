package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the CLI:
// - Summarizing a fixture writes a report to stdout
// - JSON mode emits JSON
// - A run where nothing could be summarized fails

const fixtures = "../../testdata/code/python"

// runRoot executes the root command with args, capturing stdout. The command
// writes reports straight to os.Stdout, so tests swap it for a pipe.
func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	rootCmd.SetArgs(args)
	execErr := rootCmd.Execute()

	w.Close()
	os.Stdout = old
	out, readErr := io.ReadAll(r)
	require.NoError(t, readErr)
	return string(out), execErr
}

func TestRoot_SummarizesFile(t *testing.T) {
	out, err := runRoot(t, "--no-color", filepath.Join(fixtures, "script.py"))
	require.NoError(t, err)
	assert.Contains(t, out, "Status: executable")
	assert.Contains(t, out, "Entry point:")
}

func TestRoot_JSONMode(t *testing.T) {
	out, err := runRoot(t, "--json", filepath.Join(fixtures, "script.py"))
	require.NoError(t, err)
	assert.Contains(t, out, "\"executable\": true")
}

func TestRoot_NothingSummarized(t *testing.T) {
	_, err := runRoot(t, "--json=false", filepath.Join(fixtures, "notes.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no files could be summarized")
}
