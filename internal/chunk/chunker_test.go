package chunk

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subtrans/internal/subtitle"
)

func makeCues(n int) []subtitle.Cue {
	cues := make([]subtitle.Cue, 0, n)
	for i := 1; i <= n; i++ {
		cues = append(cues, subtitle.Cue{
			Index: i,
			Start: time.Duration(i) * time.Second,
			End:   time.Duration(i)*time.Second + 500*time.Millisecond,
			Text:  fmt.Sprintf("line %d", i),
		})
	}
	return cues
}

func TestSplitPartition(t *testing.T) {
	tests := []struct {
		n, batchSize int
		wantBatches  int
		wantLast     int
	}{
		{250, 100, 3, 50},
		{200, 100, 2, 100},
		{99, 100, 1, 99},
		{1, 100, 1, 1},
		{7, 3, 3, 1},
	}

	for _, tt := range tests {
		cues := makeCues(tt.n)
		batches := Split(cues, tt.batchSize)
		require.Len(t, batches, tt.wantBatches, "n=%d b=%d", tt.n, tt.batchSize)
		assert.Len(t, batches[len(batches)-1], tt.wantLast)

		// Concatenating batches in order reproduces the track exactly.
		var concat []subtitle.Cue
		for _, b := range batches {
			concat = append(concat, b...)
		}
		assert.Equal(t, cues, concat)
	}
}

func TestSplitEmpty(t *testing.T) {
	assert.Empty(t, Split(nil, 100))
}

func TestSplitDefaultsBatchSize(t *testing.T) {
	batches := Split(makeCues(150), 0)
	require.Len(t, batches, 2)
	assert.Len(t, batches[0], DefaultBatchSize)
}

func TestWriteBatches(t *testing.T) {
	dir := t.TempDir()
	cues := makeCues(250)

	files, err := WriteBatches(dir, "episode01", Split(cues, 100))
	require.NoError(t, err)
	require.Len(t, files, 3)

	assert.Equal(t, "episode01_00000001.srt", filepath.Base(files[0].Path))
	assert.Equal(t, "episode01_00000101.srt", filepath.Base(files[1].Path))
	assert.Equal(t, "episode01_00000201.srt", filepath.Base(files[2].Path))
	assert.Equal(t, 201, files[2].StartIndex)

	// Each batch file parses back into its cue slice.
	data, err := os.ReadFile(files[2].Path)
	require.NoError(t, err)
	parsed, err := subtitle.Parse(string(data))
	require.NoError(t, err)
	assert.Equal(t, files[2].Cues, parsed)
}

func TestWriteBatchesCreatesScratchDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "scratch")
	_, err := WriteBatches(dir, "x", Split(makeCues(5), 2))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}
