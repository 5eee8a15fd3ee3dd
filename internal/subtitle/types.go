package subtitle

import (
	"time"

	"golang.org/x/text/language"
)

// Cue represents a single timed subtitle entry
type Cue struct {
	Index int           // 1-based sequence index, contiguous within a file
	Start time.Duration // start time
	End   time.Duration // end time, Start <= End
	Text  string        // subtitle text, may span multiple lines
}

// Track represents the full ordered cue sequence of one subtitle file
type Track struct {
	Cues     []Cue
	Format   Format
	Language language.Tag
}
