package subtitle

import (
	"path/filepath"
	"strings"

	"subtrans/internal/errs"
)

// Format identifies a subtitle file format
type Format string

const (
	FormatSRT Format = "srt"
	FormatASS Format = "ass"
)

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string {
	return string(f)
}

// DetectFormat determines the subtitle format from the file extension.
// Unknown extensions yield an UnsupportedFormat error; recognizing a
// format says nothing about whether operations on it are implemented.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".srt":
		return FormatSRT, nil
	case ".ass":
		return FormatASS, nil
	default:
		return "", errs.Newf(errs.KindUnsupportedFormat, "unsupported subtitle file: %s", path)
	}
}
