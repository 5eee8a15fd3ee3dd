package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"subtrans/internal/errs"
)

// DefaultPrompt is used when neither the config file nor the
// environment supplies one.
const DefaultPrompt = "You are a professional subtitle translator. " +
	"Translate naturally, keep sentences readable on screen, and preserve " +
	"the tone of the original dialogue."

// Config holds all application configuration. It is an explicit value
// passed to the components that need it; nothing in the core reads
// global state.
//
// Environment variables override file values:
// - GEMINI_API_KEY: API key (required for translation)
// - GEMINI_API_URL: API base URL
// - GEMINI_MODEL: model name (default: gemini-2.5-flash)
// - GEMINI_TIMEOUT: request timeout in seconds (default: 120)
// - SUBTRANS_PROMPT: translation prompt
// - SUBTRANS_BATCH_SIZE: cues per batch (default: 100)
// - SUBTRANS_TARGET_LANG: target language display name
// - SUBTRANS_SOURCE_LANG: source language display name
// - SUBTRANS_SCRATCH_DIR: scratch/cache directory
// - SUBTRANS_CRON_EXPR: watch mode schedule
// - SUBTRANS_WATCH_DIRS: watch directories, comma separated
// - SUBTRANS_HISTORY_DB: run history database path
type Config struct {
	Gemini    GeminiConfig    `toml:"gemini"`
	Translate TranslateConfig `toml:"translate"`
	Watch     WatchConfig     `toml:"watch"`
	History   HistoryConfig   `toml:"history"`
}

type GeminiConfig struct {
	APIKey          string  `toml:"api_key"`
	APIURL          string  `toml:"api_url"`
	Model           string  `toml:"model"`
	Temperature     float64 `toml:"temperature"`
	TopP            float64 `toml:"top_p"`
	TopK            int     `toml:"top_k"`
	MaxOutputTokens int     `toml:"max_output_tokens"`
	Timeout         int     `toml:"timeout"`
}

type TranslateConfig struct {
	Prompt         string `toml:"prompt"`
	BatchSize      int    `toml:"batch_size"`
	SourceLanguage string `toml:"source_language"`
	TargetLanguage string `toml:"target_language"`
	ScratchDir     string `toml:"scratch_dir"`
	OutputDir      string `toml:"output_dir"`
}

type WatchConfig struct {
	CronExpr    string   `toml:"cron_expr"`
	Dirs        []string `toml:"dirs"`
	Concurrency int      `toml:"concurrency"`
}

type HistoryConfig struct {
	DBPath string `toml:"db_path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Gemini: GeminiConfig{
			Model:           "gemini-2.5-flash",
			Temperature:     1,
			TopP:            0.95,
			TopK:            64,
			MaxOutputTokens: 65536,
			Timeout:         120,
		},
		Translate: TranslateConfig{
			Prompt:         DefaultPrompt,
			BatchSize:      100,
			SourceLanguage: "English",
			TargetLanguage: "Chinese",
			ScratchDir:     filepath.Join(os.TempDir(), "subtrans"),
		},
		Watch: WatchConfig{
			CronExpr:    "0 0 * * *",
			Concurrency: 1,
		},
		History: HistoryConfig{
			DBPath: filepath.Join(os.TempDir(), "subtrans", "history.db"),
		},
	}
}

// Load builds a Config from defaults, an optional TOML file, and
// environment overrides, in that order. A missing file is not an
// error; an unreadable or malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return nil, errs.Wrap(err, errs.KindIO, "failed to parse config file").
					WithContext("path", path)
			}
		case !os.IsNotExist(err):
			return nil, errs.Wrap(err, errs.KindIO, "failed to read config file").
				WithContext("path", path)
		}
	}

	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration as TOML, creating parent directories
// as needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errs.Wrap(err, errs.KindIO, "failed to create config directory").
			WithContext("path", path)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return errs.Wrap(err, errs.KindIO, "failed to write config file").
			WithContext("path", path)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Gemini.APIKey = getEnvString("GEMINI_API_KEY", cfg.Gemini.APIKey)
	cfg.Gemini.APIURL = getEnvString("GEMINI_API_URL", cfg.Gemini.APIURL)
	cfg.Gemini.Model = getEnvString("GEMINI_MODEL", cfg.Gemini.Model)
	cfg.Gemini.Timeout = getEnvInt("GEMINI_TIMEOUT", cfg.Gemini.Timeout)

	cfg.Translate.Prompt = getEnvString("SUBTRANS_PROMPT", cfg.Translate.Prompt)
	cfg.Translate.BatchSize = getEnvInt("SUBTRANS_BATCH_SIZE", cfg.Translate.BatchSize)
	cfg.Translate.SourceLanguage = getEnvString("SUBTRANS_SOURCE_LANG", cfg.Translate.SourceLanguage)
	cfg.Translate.TargetLanguage = getEnvString("SUBTRANS_TARGET_LANG", cfg.Translate.TargetLanguage)
	cfg.Translate.ScratchDir = getEnvString("SUBTRANS_SCRATCH_DIR", cfg.Translate.ScratchDir)
	cfg.Translate.OutputDir = getEnvString("SUBTRANS_OUTPUT_DIR", cfg.Translate.OutputDir)

	cfg.Watch.CronExpr = getEnvString("SUBTRANS_CRON_EXPR", cfg.Watch.CronExpr)
	if dirs := os.Getenv("SUBTRANS_WATCH_DIRS"); dirs != "" {
		cfg.Watch.Dirs = splitAndTrim(dirs)
	}

	cfg.History.DBPath = getEnvString("SUBTRANS_HISTORY_DB", cfg.History.DBPath)
}

func (c *Config) validate() error {
	if c.Translate.BatchSize <= 0 {
		return fmt.Errorf("batch size must be greater than 0")
	}
	if c.Translate.TargetLanguage == "" {
		return fmt.Errorf("target language is required")
	}
	return nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	ret := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ret = append(ret, p)
		}
	}
	return ret
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
