package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"subtrans/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded translation runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := history.NewStore(cfg.History.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("no runs recorded")
			return nil
		}

		if isatty.IsTerminal(os.Stdout.Fd()) {
			renderHistoryTable(records)
			return nil
		}

		for _, rec := range records {
			fmt.Printf("%s\t%s\t%s\t%s\t%d cues\t%s\n",
				rec.FinishedAt.Format("2006-01-02 15:04"),
				rec.InputPath, rec.TargetLanguage, rec.OutputPath,
				rec.CueCount, rec.Duration.Round(time.Second))
		}
		return nil
	},
}

func renderHistoryTable(records []history.Record) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Finished", "Input", "Target", "Cues", "Batches", "Duration"})

	for _, rec := range records {
		t.AppendRow(table.Row{
			rec.FinishedAt.Format("2006-01-02 15:04"),
			rec.InputPath,
			rec.TargetLanguage,
			rec.CueCount,
			rec.BatchCount,
			rec.Duration.Round(time.Second),
		})
	}
	t.Render()
}
