package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"subtrans/internal/gemini"
	"subtrans/internal/history"
	"subtrans/internal/pipeline"
	"subtrans/pkg/log"
)

var (
	translateInput      string
	translateSource     string
	translateTarget     string
	translatePrompt     string
	translateOutputDir  string
	translateScratchDir string
	translateBatchSize  int
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate one subtitle file",
	Long: `Translate a subtitle file from one language to another.

Example:
  subtrans translate -i episode01.srt -s English -t Chinese`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if translateInput == "" {
			return fmt.Errorf("input file is required")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if translateSource != "" {
			cfg.Translate.SourceLanguage = translateSource
		}
		if translateTarget != "" {
			cfg.Translate.TargetLanguage = translateTarget
		}
		if translatePrompt != "" {
			cfg.Translate.Prompt = translatePrompt
		}
		if translateScratchDir != "" {
			cfg.Translate.ScratchDir = translateScratchDir
		}
		if translateBatchSize > 0 {
			cfg.Translate.BatchSize = translateBatchSize
		}

		outputDir := translateOutputDir
		if outputDir == "" {
			outputDir = cfg.Translate.OutputDir
		}
		if outputDir == "" {
			outputDir = filepath.Dir(translateInput)
		}

		engine, err := gemini.NewClient(gemini.Config{
			APIKey:          cfg.Gemini.APIKey,
			APIURL:          cfg.Gemini.APIURL,
			Model:           cfg.Gemini.Model,
			Temperature:     cfg.Gemini.Temperature,
			TopP:            cfg.Gemini.TopP,
			TopK:            cfg.Gemini.TopK,
			MaxOutputTokens: cfg.Gemini.MaxOutputTokens,
			Timeout:         cfg.Gemini.Timeout,
		})
		if err != nil {
			return err
		}

		interactive := isatty.IsTerminal(os.Stdout.Fd())
		onProgress := func(completed, total int) {
			if interactive {
				fmt.Printf("\rtranslated batch %d/%d", completed, total)
				if completed == total {
					fmt.Println()
				}
			} else {
				log.Info("translated batch %d/%d", completed, total)
			}
		}

		started := time.Now()
		result, err := pipeline.New(engine).Run(cmd.Context(), pipeline.Request{
			SubtitlePath: translateInput,
			SourceLang:   cfg.Translate.SourceLanguage,
			TargetLang:   cfg.Translate.TargetLanguage,
			Prompt:       cfg.Translate.Prompt,
			ScratchDir:   cfg.Translate.ScratchDir,
			OutputDir:    outputDir,
			BatchSize:    cfg.Translate.BatchSize,
			OnProgress:   onProgress,
		})
		if err != nil {
			return err
		}

		recordRun(cmd, cfg.History.DBPath, history.Record{
			InputPath:      translateInput,
			OutputPath:     result.OutputPath,
			SourceLanguage: cfg.Translate.SourceLanguage,
			TargetLanguage: cfg.Translate.TargetLanguage,
			CueCount:       result.CueCount,
			BatchCount:     result.BatchCount,
			Duration:       time.Since(started),
		})

		fmt.Println(result.OutputPath)
		return nil
	},
}

// recordRun best-effort records the run; translation output is already
// on disk, so history failures only warn.
func recordRun(cmd *cobra.Command, dbPath string, rec history.Record) {
	store, err := history.NewStore(dbPath)
	if err != nil {
		log.Warn("failed to open history store: %v", err)
		return
	}
	defer store.Close()

	if _, err := store.Record(cmd.Context(), rec); err != nil {
		log.Warn("failed to record run: %v", err)
	}
}

func init() {
	translateCmd.Flags().StringVarP(&translateInput, "input", "i", "", "subtitle file to translate")
	translateCmd.Flags().StringVarP(&translateSource, "source", "s", "", "source language name")
	translateCmd.Flags().StringVarP(&translateTarget, "target", "t", "", "target language name")
	translateCmd.Flags().StringVar(&translatePrompt, "prompt", "", "translation prompt override")
	translateCmd.Flags().StringVarP(&translateOutputDir, "output-dir", "o", "", "output directory (default: input file directory)")
	translateCmd.Flags().StringVar(&translateScratchDir, "scratch-dir", "", "scratch directory for batch and cache files")
	translateCmd.Flags().IntVar(&translateBatchSize, "batch-size", 0, "cues per translation batch")
}
