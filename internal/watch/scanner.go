package watch

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"subtrans/internal/pipeline"
	"subtrans/internal/subtitle"
	"subtrans/pkg/file"
)

// FindPending walks dir and returns SRT files that have no translated
// sibling for targetLang yet. Translated outputs themselves are
// excluded so a watched directory does not feed its own results back in.
func FindPending(dir, targetLang string) ([]string, error) {
	outputSuffix := "_" + targetLang + ".srt"

	var pending []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".srt") {
			return nil
		}
		if strings.HasSuffix(path, outputSuffix) {
			return nil
		}

		output := filepath.Join(filepath.Dir(path),
			pipeline.OutputFileName(file.Stem(path), targetLang, subtitle.FormatSRT))
		if _, err := os.Stat(output); err == nil {
			return nil
		}

		pending = append(pending, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return pending, nil
}
