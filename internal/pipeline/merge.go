package pipeline

import (
	"subtrans/internal/subtitle"
)

// Merge concatenates translated batches, in batch order, into one flat
// cue sequence and writes it to outputPath, overwriting any existing
// file. Indices are trusted: every batch was validated to preserve its
// cue count, so concatenation in order reproduces the original range.
func Merge(batches [][]subtitle.Cue, outputPath string) error {
	var total int
	for _, batch := range batches {
		total += len(batch)
	}

	merged := make([]subtitle.Cue, 0, total)
	for _, batch := range batches {
		merged = append(merged, batch...)
	}

	return subtitle.WriteFile(outputPath, merged)
}
