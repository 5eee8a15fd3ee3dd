package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"subtrans/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the subtrans configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s", configPath)
		}
		if err := config.Save(configPath, config.Default()); err != nil {
			return err
		}
		fmt.Println(configPath)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// Never echo credentials.
		if cfg.Gemini.APIKey != "" {
			cfg.Gemini.APIKey = "********"
		}

		data, err := toml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
