package file

import (
	"path/filepath"
	"strings"
)

// Stem returns the base name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext)
}

// ReplaceExt swaps the extension of path for ext, adding a leading dot
// when ext is missing one.
func ReplaceExt(path, ext string) string {
	if path == "" {
		return path
	}

	dir := filepath.Dir(path)
	filename := filepath.Base(path)

	lastDot := strings.LastIndex(filename, ".")

	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	if lastDot <= 0 {
		return filepath.Join(dir, filename+ext)
	}

	return filepath.Join(dir, filename[:lastDot]+ext)
}
