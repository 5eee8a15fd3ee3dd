package chunk

import (
	"fmt"
	"os"
	"path/filepath"

	"subtrans/internal/errs"
	"subtrans/internal/subtitle"
)

// DefaultBatchSize is the number of cues sent per remote translation call.
const DefaultBatchSize = 100

// BatchFile is one contiguous slice of a track, materialized as its own
// miniature subtitle file for transmission.
type BatchFile struct {
	Path       string
	Stem       string
	StartIndex int // 1-based position of the first cue within the track
	Cues       []subtitle.Cue
}

// Split partitions cues into contiguous batches of at most batchSize,
// preserving order and indices. Concatenating the batches in order
// reproduces the input exactly. An empty input yields no batches.
func Split(cues []subtitle.Cue, batchSize int) [][]subtitle.Cue {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	var batches [][]subtitle.Cue
	for i := 0; i < len(cues); i += batchSize {
		end := min(i+batchSize, len(cues))
		batches = append(batches, cues[i:end])
	}
	return batches
}

// WriteBatches serializes each batch to its own file under scratchDir,
// named from the source file stem and the 1-based starting cue
// position, zero-padded so batches sort by filename.
func WriteBatches(scratchDir, stem string, batches [][]subtitle.Cue) ([]BatchFile, error) {
	if err := os.MkdirAll(scratchDir, 0755); err != nil {
		return nil, errs.Wrap(err, errs.KindIO, "failed to create scratch directory").
			WithContext("dir", scratchDir)
	}

	files := make([]BatchFile, 0, len(batches))
	start := 1
	for _, batch := range batches {
		path := filepath.Join(scratchDir, BatchFileName(stem, start))
		if err := os.WriteFile(path, []byte(subtitle.Compose(batch)), 0644); err != nil {
			return nil, errs.Wrap(err, errs.KindIO, "failed to write batch file").
				WithContext("path", path)
		}
		files = append(files, BatchFile{
			Path:       path,
			Stem:       stem,
			StartIndex: start,
			Cues:       batch,
		})
		start += len(batch)
	}

	return files, nil
}

// BatchFileName builds the deterministic batch file name for the cue
// starting at the given 1-based track position.
func BatchFileName(stem string, start int) string {
	return fmt.Sprintf("%s_%08d.srt", stem, start)
}
