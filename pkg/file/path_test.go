package file

import "testing"

func TestStem(t *testing.T) {
	tests := []struct {
		path, want string
	}{
		{"/subs/episode01.srt", "episode01"},
		{"episode01.srt", "episode01"},
		{"/subs/archive.tar.gz", "archive.tar"},
		{"/subs/noext", "noext"},
	}
	for _, tt := range tests {
		if got := Stem(tt.path); got != tt.want {
			t.Errorf("Stem(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestReplaceExt(t *testing.T) {
	tests := []struct {
		path, ext, want string
	}{
		{"/subs/ep01.srt", ".ass", "/subs/ep01.ass"},
		{"/subs/ep01.srt", "ass", "/subs/ep01.ass"},
		{"/subs/noext", ".srt", "/subs/noext.srt"},
		{"", ".srt", ""},
	}
	for _, tt := range tests {
		if got := ReplaceExt(tt.path, tt.ext); got != tt.want {
			t.Errorf("ReplaceExt(%q, %q) = %q, want %q", tt.path, tt.ext, got, tt.want)
		}
	}
}
