package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"subtrans/internal/config"
	"subtrans/internal/history"
	"subtrans/internal/pipeline"
	"subtrans/pkg/log"
)

// Service periodically scans configured directories and translates any
// subtitle file that has neither an output sibling nor a history
// record. Files are processed independently; each file's batches stay
// strictly sequential inside the pipeline.
type Service struct {
	cfg   config.Config
	pipe  *pipeline.Pipeline
	store *history.Store
	cron  *cron.Cron

	group singleflight.Group
}

func NewService(cfg config.Config, pipe *pipeline.Pipeline, store *history.Store, c *cron.Cron) *Service {
	return &Service{
		cfg:   cfg,
		pipe:  pipe,
		store: store,
		cron:  c,
	}
}

// Schedule registers the scan on the cron schedule. Overlapping fires
// collapse into the already-running scan.
func (s *Service) Schedule(ctx context.Context) error {
	runFunc := func() {
		_, _, _ = s.group.Do("scan", func() (any, error) {
			if err := s.RunOnce(ctx); err != nil {
				log.Error("scheduled scan failed: %v", err)
			}
			return nil, nil
		})
	}

	if _, err := s.cron.AddFunc(s.cfg.Watch.CronExpr, runFunc); err != nil {
		return err
	}

	if schedule, err := cron.ParseStandard(s.cfg.Watch.CronExpr); err == nil {
		log.Info("watch scheduled %q, next run at %s",
			s.cfg.Watch.CronExpr, schedule.Next(time.Now()).Format(time.RFC3339))
	}
	return nil
}

// RunOnce scans every configured directory once and translates all
// pending files, bounded by the configured concurrency.
func (s *Service) RunOnce(ctx context.Context) error {
	concurrency := s.cfg.Watch.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	for _, dir := range s.cfg.Watch.Dirs {
		pending, err := FindPending(dir, s.cfg.Translate.TargetLanguage)
		if err != nil {
			log.Error("failed to scan %s: %v", dir, err)
			return err
		}
		log.Info("found %d pending subtitle files in %s", len(pending), dir)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)
		for _, path := range pending {
			g.Go(func() error {
				return s.translateFile(gctx, path)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) translateFile(ctx context.Context, path string) error {
	if s.store != nil {
		rec, err := s.store.Lookup(ctx, path, s.cfg.Translate.TargetLanguage)
		if err != nil {
			return err
		}
		if rec != nil {
			log.Debug("skipping %s, already translated on %s", path, rec.FinishedAt.Format(time.RFC3339))
			return nil
		}
	}

	log.Info("translating %s", path)
	started := time.Now()

	result, err := s.pipe.Run(ctx, pipeline.Request{
		SubtitlePath: path,
		SourceLang:   s.cfg.Translate.SourceLanguage,
		TargetLang:   s.cfg.Translate.TargetLanguage,
		Prompt:       s.cfg.Translate.Prompt,
		ScratchDir:   s.cfg.Translate.ScratchDir,
		OutputDir:    filepath.Dir(path),
		BatchSize:    s.cfg.Translate.BatchSize,
	})
	if err != nil {
		log.Error("failed to translate %s: %v", path, err)
		return err
	}

	if s.store != nil {
		_, err = s.store.Record(ctx, history.Record{
			InputPath:      path,
			OutputPath:     result.OutputPath,
			SourceLanguage: s.cfg.Translate.SourceLanguage,
			TargetLanguage: s.cfg.Translate.TargetLanguage,
			CueCount:       result.CueCount,
			BatchCount:     result.BatchCount,
			Duration:       time.Since(started),
		})
		if err != nil {
			log.Warn("failed to record run for %s: %v", path, err)
		}
	}
	return nil
}
