package subtitle

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"subtrans/internal/errs"
)

// Compose serializes cues to SRT text. Composing then parsing any
// well-formed cue sequence returns the sequence unchanged.
func Compose(cues []Cue) string {
	var sb strings.Builder

	for _, cue := range cues {
		sb.WriteString(fmt.Sprintf("%d\n", cue.Index))
		sb.WriteString(fmt.Sprintf("%s --> %s\n", FormatDuration(cue.Start), FormatDuration(cue.End)))
		sb.WriteString(cue.Text)
		sb.WriteString("\n\n")
	}

	return sb.String()
}

// WriteFile serializes cues and writes them to path, overwriting any
// existing file.
func WriteFile(path string, cues []Cue) error {
	file, err := os.Create(path)
	if err != nil {
		return errs.Wrap(err, errs.KindIO, "failed to create output file").
			WithContext("path", path)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if _, err := writer.WriteString(Compose(cues)); err != nil {
		return errs.Wrap(err, errs.KindIO, "failed to write subtitle file").
			WithContext("path", path)
	}
	if err := writer.Flush(); err != nil {
		return errs.Wrap(err, errs.KindIO, "failed to flush subtitle file").
			WithContext("path", path)
	}

	return nil
}

// FormatDuration renders a duration in the SRT timestamp format.
func FormatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	milliseconds := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, milliseconds)
}
