package proc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeExecutable(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0755))
	return path
}

func TestWhichHonorsPathOrder(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	want := writeExecutable(t, first, "sometool")
	writeExecutable(t, second, "sometool")

	t.Setenv("PATH", first+string(os.PathListSeparator)+second)

	path, err := Which("sometool")
	require.NoError(t, err)
	assert.Equal(t, want, path)
}

func TestWhichSkipsMissingDirectories(t *testing.T) {
	dir := t.TempDir()
	want := writeExecutable(t, dir, "sometool")

	t.Setenv("PATH", "/nonexistent"+string(os.PathListSeparator)+dir)

	path, err := Which("sometool")
	require.NoError(t, err)
	assert.Equal(t, want, path)
}

func TestWhichNotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := Which("definitely-not-installed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "definitely-not-installed")
}

func TestWhichRelativePath(t *testing.T) {
	dir := t.TempDir()
	writeExecutable(t, dir, "localtool")

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	t.Setenv("PATH", "")

	path, err := Which("./localtool")
	require.NoError(t, err)
	assert.Equal(t, "./localtool", path)
}

func TestLinesSkipsInvalidUTF8(t *testing.T) {
	input := "first\n\xff\xfe\xfd\nlast\n"
	lines := NewLines(strings.NewReader(input))

	require.True(t, lines.Scan())
	assert.Equal(t, "first", lines.Text())
	require.True(t, lines.Scan())
	assert.Equal(t, "last", lines.Text())
	assert.False(t, lines.Scan())
}

func TestStreamReadsProcessOutput(t *testing.T) {
	lines, err := Stream("/bin/sh", "-c", "echo one; echo two")
	require.NoError(t, err)
	defer lines.Close()

	require.True(t, lines.Scan())
	assert.Equal(t, "one", lines.Text())
	require.True(t, lines.Scan())
	assert.Equal(t, "two", lines.Text())
	assert.False(t, lines.Scan())
}

func TestCloseKillsAbandonedProcess(t *testing.T) {
	// A long sleep that is never read to completion; Close must not block
	// on it.
	lines, err := Stream("/bin/sh", "-c", "echo ready; sleep 60")
	require.NoError(t, err)

	require.True(t, lines.Scan())
	assert.Equal(t, "ready", lines.Text())

	require.NoError(t, lines.Close())
}
