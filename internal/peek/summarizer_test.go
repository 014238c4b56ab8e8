package peek

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyglance/internal/syntax"
)

// Test Plan for the summarizer:
// - Summarize a single file end to end
// - Non-Python and broken files fail with ErrParseUnavailable (skip, not
//   crash)
// - Batch runs skip unparseable files and keep going
// - Directory expansion collects .py files in order, honoring excludes
// - Reports come out in input order even with parallel workers
// - The extraction cache serves unchanged files and misses after an edit
// - JSON mode renders JSON

const fixtures = "../../testdata/code/python"

func newTestSummarizer(t *testing.T, opts Options) *Summarizer {
	t.Helper()
	s, err := New(opts, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestSummarizer_File(t *testing.T) {
	t.Parallel()

	s := newTestSummarizer(t, Options{})

	out, err := s.File(filepath.Join(fixtures, "script.py"))
	require.NoError(t, err)

	assert.Contains(t, out, "Status: executable")
	assert.Contains(t, out, "Entry point:")
	assert.Contains(t, out, "\"Entry.\"")
	assert.Contains(t, out, "return 0")
}

func TestSummarizer_File_Unparseable(t *testing.T) {
	t.Parallel()

	s := newTestSummarizer(t, Options{})

	// Test: not Python at all
	_, err := s.File(filepath.Join(fixtures, "notes.txt"))
	assert.ErrorIs(t, err, syntax.ErrParseUnavailable)

	// Test: syntax error
	_, err = s.File(filepath.Join(fixtures, "broken.py"))
	assert.ErrorIs(t, err, syntax.ErrParseUnavailable)

	// Test: missing file
	_, err = s.File(filepath.Join(fixtures, "missing.py"))
	assert.ErrorIs(t, err, syntax.ErrParseUnavailable)
}

func TestSummarizer_RunSkipsAndContinues(t *testing.T) {
	t.Parallel()

	s := newTestSummarizer(t, Options{})

	var buf bytes.Buffer
	count, err := s.Run(context.Background(), []string{
		filepath.Join(fixtures, "broken.py"),
		filepath.Join(fixtures, "script.py"),
	}, &buf)

	require.NoError(t, err)
	assert.Equal(t, 1, count, "broken file is skipped, not fatal")
	assert.Contains(t, buf.String(), "script.py")
}

func TestSummarizer_RunDirectory(t *testing.T) {
	t.Parallel()

	s := newTestSummarizer(t, Options{})

	var buf bytes.Buffer
	count, err := s.Run(context.Background(), []string{fixtures}, &buf)
	require.NoError(t, err)

	// broken.py is skipped; notes.txt and the extensionless script are
	// not collected from directories.
	assert.Equal(t, 4, count)

	out := buf.String()
	assert.Contains(t, out, "dupmain.py")
	assert.Contains(t, out, "simple.py")
	assert.NotContains(t, out, "notes.txt")
}

func TestSummarizer_RunOrderStable(t *testing.T) {
	t.Parallel()

	s := newTestSummarizer(t, Options{Jobs: 4})

	paths := []string{
		filepath.Join(fixtures, "simple.py"),
		filepath.Join(fixtures, "script.py"),
		filepath.Join(fixtures, "nested.py"),
	}

	var buf bytes.Buffer
	count, err := s.Run(context.Background(), paths, &buf)
	require.NoError(t, err)
	require.Equal(t, 3, count)

	out := buf.String()
	assert.Less(t, strings.Index(out, "simple.py"), strings.Index(out, "script.py"))
	assert.Less(t, strings.Index(out, "script.py"), strings.Index(out, "nested.py"))
}

func TestSummarizer_Exclude(t *testing.T) {
	t.Parallel()

	s := newTestSummarizer(t, Options{Exclude: []string{"dupmain*"}})

	files, err := s.Expand([]string{fixtures})
	require.NoError(t, err)

	for _, file := range files {
		assert.NotContains(t, file, "dupmain")
	}
}

func TestSummarizer_BadExcludePattern(t *testing.T) {
	t.Parallel()

	_, err := New(Options{Exclude: []string{"[unterminated"}}, nil)
	assert.Error(t, err)
}

func TestSummarizer_CacheInvalidation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "mutating.py")
	require.NoError(t, os.WriteFile(path, []byte("def first():\n    return 1\n"), 0o644))

	s := newTestSummarizer(t, Options{})

	out, err := s.File(path)
	require.NoError(t, err)
	assert.Contains(t, out, "first")

	// Unchanged file: served again, same content.
	again, err := s.File(path)
	require.NoError(t, err)
	assert.Equal(t, out, again)

	// Rewrite with different content (and size, to dodge coarse mtimes).
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("def second(x):\n    return x + 1\n"), 0o644))

	updated, err := s.File(path)
	require.NoError(t, err)
	assert.Contains(t, updated, "second")
	assert.NotContains(t, updated, "first")
}

func TestSummarizer_JSONMode(t *testing.T) {
	t.Parallel()

	s := newTestSummarizer(t, Options{JSON: true})

	out, err := s.File(filepath.Join(fixtures, "script.py"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "{"))
	assert.Contains(t, out, "\"executable\": true")
	assert.Contains(t, out, "\"entry_point\"")
}
