package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"subtrans/internal/chunk"
	"subtrans/internal/errs"
	"subtrans/internal/gemini"
	"subtrans/internal/subtitle"
	"subtrans/internal/translator"
	"subtrans/pkg/file"
	"subtrans/pkg/log"
)

// ProgressFunc receives the cumulative 1-based completed batch count
// after each batch, synchronously. Callers divide for a ratio.
type ProgressFunc func(completed, total int)

// Request carries everything one translation run needs. It is built by
// the caller per run and never persisted.
type Request struct {
	SubtitlePath string
	SourceLang   string
	TargetLang   string
	Prompt       string
	ScratchDir   string
	OutputDir    string
	BatchSize    int
	OnProgress   ProgressFunc
}

// Result describes a completed run.
type Result struct {
	OutputPath string
	CueCount   int
	BatchCount int
}

// Pipeline drives chunk, translate and merge for one subtitle file.
type Pipeline struct {
	engine gemini.Engine
}

func New(engine gemini.Engine) *Pipeline {
	return &Pipeline{engine: engine}
}

// Run translates one subtitle file end to end and returns the output
// path. Batches are processed strictly sequentially; a failed run
// leaves the caches of completed batches on disk, so rerunning resumes
// from the first untranslated batch without repeating remote calls.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	if _, err := os.Stat(req.SubtitlePath); err != nil {
		return nil, errs.Wrap(err, errs.KindIO, "input file is not accessible").
			WithContext("path", req.SubtitlePath)
	}

	// Format check happens before anything touches the network.
	track, err := subtitle.ReadFile(req.SubtitlePath)
	if err != nil {
		return nil, err
	}
	if len(track.Cues) == 0 {
		return nil, errs.New(errs.KindFormat, "subtitle file contains no cues").
			WithContext("path", req.SubtitlePath)
	}

	if declared := subtitle.TagForName(req.SourceLang); !declared.IsRoot() && !track.Language.IsRoot() {
		if !subtitle.SameBase(declared, track.Language) {
			log.Warn("declared source language %q does not match detected language %s",
				req.SourceLang, track.Language)
		}
	}

	stem := file.Stem(req.SubtitlePath)
	batches := chunk.Split(track.Cues, req.BatchSize)

	batchFiles, err := chunk.WriteBatches(req.ScratchDir, stem, batches)
	if err != nil {
		return nil, err
	}

	log.Info("translating %s: %d cues in %d batches, %s -> %s",
		req.SubtitlePath, len(track.Cues), len(batchFiles), req.SourceLang, req.TargetLang)

	trans := translator.New(p.engine, req.Prompt, req.SourceLang, req.TargetLang)

	translated := make([][]subtitle.Cue, 0, len(batchFiles))
	for i, batch := range batchFiles {
		cues, err := trans.Translate(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("batch %d/%d failed: %w", i+1, len(batchFiles), err)
		}
		translated = append(translated, cues)

		if req.OnProgress != nil {
			req.OnProgress(i+1, len(batchFiles))
		}
	}

	outputPath := filepath.Join(req.OutputDir, OutputFileName(stem, req.TargetLang, track.Format))
	if err := Merge(translated, outputPath); err != nil {
		return nil, err
	}

	log.Info("wrote %s", outputPath)

	return &Result{
		OutputPath: outputPath,
		CueCount:   len(track.Cues),
		BatchCount: len(batchFiles),
	}, nil
}

// OutputFileName builds the output file name for a translated track.
func OutputFileName(stem, targetLang string, format subtitle.Format) string {
	return fmt.Sprintf("%s_%s.%s", stem, targetLang, format.Ext())
}
