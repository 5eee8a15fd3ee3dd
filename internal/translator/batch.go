package translator

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"subtrans/internal/chunk"
	"subtrans/internal/errs"
	"subtrans/internal/gemini"
	"subtrans/internal/subtitle"
	"subtrans/pkg/log"
)

// maxAttempts bounds the live calls per batch: the initial call plus
// exactly one retry on a malformed response.
const maxAttempts = 2

// BatchTranslator produces a translated cue sequence for one batch,
// with an on-disk cache enforcing at most one live remote call per
// batch across runs.
type BatchTranslator struct {
	engine     gemini.Engine
	prompt     string
	sourceLang string
	targetLang string
}

func New(engine gemini.Engine, prompt, sourceLang, targetLang string) *BatchTranslator {
	return &BatchTranslator{
		engine:     engine,
		prompt:     prompt,
		sourceLang: sourceLang,
		targetLang: targetLang,
	}
}

// CachePath returns the deterministic cache file path for a batch. The
// name carries a fingerprint of the batch text, target language and
// prompt, so a stale cache from a different source file or prompt at
// the same position is never served as a false hit.
func (t *BatchTranslator) CachePath(batch chunk.BatchFile) string {
	fp := t.fingerprint(batch)
	name := fmt.Sprintf("%s_%08d.%s.out.srt", batch.Stem, batch.StartIndex, fp)
	return filepath.Join(filepath.Dir(batch.Path), name)
}

func (t *BatchTranslator) fingerprint(batch chunk.BatchFile) string {
	h := sha256.New()
	h.Write([]byte(subtitle.Compose(batch.Cues)))
	h.Write([]byte{0})
	h.Write([]byte(t.targetLang))
	h.Write([]byte{0})
	h.Write([]byte(t.prompt))
	return fmt.Sprintf("%x", h.Sum(nil))[:8]
}

// Translate returns the translated cues for one batch. A readable,
// parseable cache entry is returned without any remote call; otherwise
// the batch is uploaded, translated, persisted and validated, with one
// retry when the response does not parse back into the same number of
// cues. Auth and service failures propagate without retry.
func (t *BatchTranslator) Translate(ctx context.Context, batch chunk.BatchFile) ([]subtitle.Cue, error) {
	cachePath := t.CachePath(batch)

	if data, err := os.ReadFile(cachePath); err == nil {
		if cues, perr := subtitle.Parse(string(data)); perr == nil {
			log.Debug("cache hit for batch %s_%08d", batch.Stem, batch.StartIndex)
			return cues, nil
		}
		log.Warn("cache entry %s is not parseable, re-translating", cachePath)
	}

	payload := []byte(subtitle.Compose(batch.Cues))
	prompt := t.buildPrompt()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		text, err := t.generateOnce(ctx, batch, prompt, payload)
		if err != nil {
			return nil, err
		}

		text = extractFenced(text)

		// Persist before validating so a near-miss response can be
		// hand-fixed in place and picked up as a cache hit on rerun.
		if err := os.WriteFile(cachePath, []byte(text), 0644); err != nil {
			return nil, errs.Wrap(err, errs.KindIO, "failed to persist translated batch").
				WithContext("path", cachePath)
		}

		cues, err := subtitle.Parse(text)
		if err != nil {
			lastErr = errs.Wrap(err, errs.KindFormat, "translated batch is not valid SRT").
				WithContext("batch_start", batch.StartIndex).
				WithContext("cache_path", cachePath).
				WithContext("attempt", attempt)
			log.Warn("batch %s_%08d attempt %d returned unparsable output", batch.Stem, batch.StartIndex, attempt)
			continue
		}

		if len(cues) != len(batch.Cues) {
			lastErr = errs.Newf(errs.KindFormat, "translated batch has %d cues, expected %d", len(cues), len(batch.Cues)).
				WithContext("batch_start", batch.StartIndex).
				WithContext("cache_path", cachePath).
				WithContext("attempt", attempt)
			log.Warn("batch %s_%08d attempt %d changed the cue count", batch.Stem, batch.StartIndex, attempt)
			continue
		}

		return cues, nil
	}

	return nil, lastErr
}

// generateOnce performs one upload / generate / release round trip. The
// remote handle is released whether or not the generation succeeded.
func (t *BatchTranslator) generateOnce(ctx context.Context, batch chunk.BatchFile, prompt string, payload []byte) (string, error) {
	handle, err := t.engine.Upload(ctx, filepath.Base(batch.Path), payload)
	if err != nil {
		return "", err
	}
	defer func() {
		if rerr := t.engine.Release(ctx, handle); rerr != nil {
			log.Warn("failed to release remote payload %s: %v", handle.Name, rerr)
		}
	}()

	return t.engine.Generate(ctx, prompt, handle)
}

func (t *BatchTranslator) buildPrompt() string {
	var sb strings.Builder
	sb.WriteString(t.prompt)
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Translate the attached SRT subtitles from %s to %s.\n", t.sourceLang, t.targetLang))
	sb.WriteString("Keep every cue index and timestamp exactly as in the input.\n")
	sb.WriteString("The output must contain the same number of cues as the input.\n")
	sb.WriteString("Return only the translated SRT content.")
	return sb.String()
}

// extractFenced keeps only the content of the first triple-backtick
// fenced block when the response embeds one, stripping any explanatory
// wrapper text around it. Responses without fences pass through as is.
func extractFenced(text string) string {
	if !strings.Contains(text, "```") {
		return text
	}

	parts := strings.SplitN(text, "```", 3)
	if len(parts) < 2 {
		return text
	}
	body := parts[1]

	// Drop an info string such as "srt" on the opening fence line.
	if i := strings.IndexByte(body, '\n'); i >= 0 {
		tag := strings.TrimSpace(body[:i])
		if tag == "" || strings.EqualFold(tag, "srt") {
			body = body[i+1:]
		}
	}

	return body
}
