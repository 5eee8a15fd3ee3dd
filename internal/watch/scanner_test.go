package watch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("1\n00:00:01,000 --> 00:00:02,000\nHi.\n\n"), 0644))
}

func TestFindPending(t *testing.T) {
	dir := t.TempDir()

	touch(t, filepath.Join(dir, "ep01.srt"))
	touch(t, filepath.Join(dir, "season2", "ep02.srt"))
	touch(t, filepath.Join(dir, "notes.txt"))

	pending, err := FindPending(dir, "Chinese")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "ep01.srt"),
		filepath.Join(dir, "season2", "ep02.srt"),
	}, pending)
}

func TestFindPendingSkipsTranslatedFiles(t *testing.T) {
	dir := t.TempDir()

	touch(t, filepath.Join(dir, "ep01.srt"))
	// An existing output sibling means ep01 is done; the output itself
	// must not be picked up either.
	touch(t, filepath.Join(dir, "ep01_Chinese.srt"))
	touch(t, filepath.Join(dir, "ep02.srt"))

	pending, err := FindPending(dir, "Chinese")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "ep02.srt")}, pending)
}

func TestFindPendingMissingDir(t *testing.T) {
	_, err := FindPending(filepath.Join(t.TempDir(), "absent"), "Chinese")
	assert.Error(t, err)
}
