package subtitle

import (
	"strings"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
)

// DetectLanguage guesses the dominant language of a cue sequence by
// majority vote over per-cue detection.
func DetectLanguage(cues []Cue) language.Tag {
	if len(cues) == 0 {
		return language.Und
	}

	langMap := make(map[string]int)

	for _, cue := range cues {
		lang := whatlanggo.DetectLang(cue.Text).Iso6391()
		langMap[lang]++
	}

	var topLang string
	var topCount int
	for lang, count := range langMap {
		if count > topCount {
			topLang = lang
			topCount = count
		}
	}

	return language.All.Make(topLang)
}

var displayNameTags = map[string]language.Tag{
	"english":  language.English,
	"chinese":  language.Chinese,
	"japanese": language.Japanese,
	"korean":   language.Korean,
	"french":   language.French,
	"german":   language.German,
	"spanish":  language.Spanish,
	"russian":  language.Russian,
}

// TagForName maps a human language display name to a tag, falling back
// to parsing it as a BCP 47 code. Unknown names yield Und.
func TagForName(name string) language.Tag {
	if tag, ok := displayNameTags[strings.ToLower(strings.TrimSpace(name))]; ok {
		return tag
	}
	if tag, err := language.Parse(name); err == nil {
		return tag
	}
	return language.Und
}

// SameBase reports whether two tags share a base language.
func SameBase(a, b language.Tag) bool {
	ab, aconf := a.Base()
	bb, bconf := b.Base()
	if aconf == language.No || bconf == language.No {
		return false
	}
	return ab == bb
}
