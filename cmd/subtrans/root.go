package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"subtrans/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "subtrans",
	Short:         "Translate subtitle files with the Gemini API",
	Long:          "subtrans splits subtitle files into batches, translates each batch with the Gemini API, and merges the results while preserving timing and cue indices.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(),
		"path to the TOML config file")

	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(dir, "subtrans", "config.toml")
}
