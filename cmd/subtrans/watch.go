package main

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"subtrans/internal/gemini"
	"subtrans/internal/history"
	"subtrans/internal/pipeline"
	"subtrans/internal/watch"
	"subtrans/pkg/log"
)

var watchRunOnce bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Scan directories on a schedule and translate new subtitle files",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if len(cfg.Watch.Dirs) == 0 {
			return fmt.Errorf("no watch directories configured")
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

		store, err := history.NewStore(cfg.History.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		c := cron.New()
		svc := watch.NewService(*cfg, pipeline.New(engine), store, c)

		if watchRunOnce {
			return svc.RunOnce(cmd.Context())
		}

		if err := svc.Schedule(cmd.Context()); err != nil {
			return err
		}

		c.Start()
		defer c.Stop()

		log.Info("watching %d directories", len(cfg.Watch.Dirs))
		<-cmd.Context().Done()
		return nil
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchRunOnce, "once", false, "scan once and exit instead of scheduling")
}
