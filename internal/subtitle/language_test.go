package subtitle

import (
	"testing"

	"golang.org/x/text/language"
)

func TestDetectLanguage(t *testing.T) {
	cues := []Cue{
		{Text: "Hello, world!"},
		{Text: "こんにちは、世界!"},
		{Text: "こんにちは、世界!"},
		{Text: "Привет, мир!"},
	}
	lang := DetectLanguage(cues)
	if lang != language.Japanese {
		t.Errorf("expected ja, got %s", lang)
	}
}

func TestDetectLanguageEmpty(t *testing.T) {
	if lang := DetectLanguage(nil); lang != language.Und {
		t.Errorf("expected und, got %s", lang)
	}
}

func TestTagForName(t *testing.T) {
	if tag := TagForName("English"); tag != language.English {
		t.Errorf("expected en, got %s", tag)
	}
	if tag := TagForName("ja"); tag != language.Japanese {
		t.Errorf("expected ja, got %s", tag)
	}
	if tag := TagForName("Klingon prose"); tag != language.Und {
		t.Errorf("expected und, got %s", tag)
	}
}

func TestSameBase(t *testing.T) {
	if !SameBase(language.English, language.AmericanEnglish) {
		t.Error("en and en-US should share a base")
	}
	if SameBase(language.English, language.Japanese) {
		t.Error("en and ja should not share a base")
	}
}
