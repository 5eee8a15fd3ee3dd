package subtitle

import (
	"bufio"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"subtrans/internal/errs"
)

var srtTimeRe = regexp.MustCompile(`^(\d{2,}):(\d{2}):(\d{2}),(\d{3}) --> (\d{2,}):(\d{2}):(\d{2}),(\d{3})$`)

// Parse parses SRT text into an ordered cue sequence.
// Malformed blocks (missing index, unparsable timing line, truncated
// block) yield a Format error naming the offending line.
func Parse(text string) ([]Cue, error) {
	var cues []Cue

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	current := Cue{}
	state := "index" // "index", "time", "text"
	var textLines []string
	lineNo := 0

	flush := func() {
		current.Text = strings.Join(textLines, "\n")
		cues = append(cues, current)
		current = Cue{}
		textLines = nil
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")

		switch state {
		case "index":
			if strings.TrimSpace(line) == "" {
				continue
			}
			index, err := strconv.Atoi(strings.TrimSpace(line))
			if err != nil {
				return nil, errs.Newf(errs.KindFormat, "expected cue index, got %q", line).
					WithContext("line", lineNo)
			}
			current.Index = index
			state = "time"

		case "time":
			start, end, err := parseSRTTime(strings.TrimSpace(line))
			if err != nil {
				return nil, errs.Wrap(err, errs.KindFormat, "invalid timing line").
					WithContext("line", lineNo).
					WithContext("cue", current.Index)
			}
			current.Start = start
			current.End = end
			state = "text"

		case "text":
			if strings.TrimSpace(line) == "" {
				flush()
				state = "index"
			} else {
				textLines = append(textLines, line)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, errs.Wrap(err, errs.KindIO, "failed to scan subtitle text")
	}

	switch state {
	case "time":
		// index line without a timing line
		return nil, errs.Newf(errs.KindFormat, "truncated block for cue %d", current.Index)
	case "text":
		flush()
	}

	return cues, nil
}

// parseSRTTime parses one "00:02:16,612 --> 00:02:19,376" timing line.
func parseSRTTime(timeString string) (time.Duration, time.Duration, error) {
	matches := srtTimeRe.FindStringSubmatch(timeString)
	if len(matches) != 9 {
		return 0, 0, errs.Newf(errs.KindFormat, "invalid time format: %q", timeString)
	}

	parse := func(hours, minutes, seconds, milliseconds string) time.Duration {
		h, _ := strconv.Atoi(hours)
		m, _ := strconv.Atoi(minutes)
		s, _ := strconv.Atoi(seconds)
		ms, _ := strconv.Atoi(milliseconds)

		return time.Duration(h)*time.Hour +
			time.Duration(m)*time.Minute +
			time.Duration(s)*time.Second +
			time.Duration(ms)*time.Millisecond
	}

	start := parse(matches[1], matches[2], matches[3], matches[4])
	end := parse(matches[5], matches[6], matches[7], matches[8])

	return start, end, nil
}

// ReadFile reads and parses a subtitle file into a Track.
// Only SRT is implemented; an .ass file fails with NotImplemented,
// distinct from a parse failure.
func ReadFile(path string) (*Track, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	if format == FormatASS {
		return nil, errs.New(errs.KindNotImplemented, "ASS subtitle support is not implemented")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(err, errs.KindIO, "subtitle file does not exist").
				WithContext("path", path)
		}
		return nil, errs.Wrap(err, errs.KindIO, "failed to read subtitle file").
			WithContext("path", path)
	}

	cues, err := Parse(string(data))
	if err != nil {
		return nil, err
	}

	return &Track{
		Cues:     cues,
		Format:   format,
		Language: DetectLanguage(cues),
	}, nil
}
