package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Record describes one completed translation run.
type Record struct {
	ID             string
	InputPath      string
	OutputPath     string
	SourceLanguage string
	TargetLanguage string
	CueCount       int
	BatchCount     int
	Duration       time.Duration
	FinishedAt     time.Time
}

// Store persists run records in a SQLite database.
type Store struct {
	db *sql.DB
}

func NewStore(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &Store{db: db}
	if err := store.init(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA journal_mode = WAL;"); err != nil {
		return fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		return fmt.Errorf("set busy timeout: %w", err)
	}

	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		input_path TEXT NOT NULL,
		output_path TEXT NOT NULL,
		source_language TEXT NOT NULL,
		target_language TEXT NOT NULL,
		cue_count INTEGER NOT NULL,
		batch_count INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		finished_at TEXT NOT NULL
	);`)
	if err != nil {
		return fmt.Errorf("create runs table: %w", err)
	}
	return nil
}

// Record persists one completed run. A missing ID or timestamp is
// filled in.
func (s *Store) Record(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.FinishedAt.IsZero() {
		rec.FinishedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO runs
		(id, input_path, output_path, source_language, target_language,
		 cue_count, batch_count, duration_ms, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.InputPath, rec.OutputPath,
		rec.SourceLanguage, rec.TargetLanguage,
		rec.CueCount, rec.BatchCount,
		rec.Duration.Milliseconds(),
		rec.FinishedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert run: %w", err)
	}
	return rec, nil
}

// List returns all recorded runs, newest first.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		id, input_path, output_path, source_language, target_language,
		cue_count, batch_count, duration_ms, finished_at
		FROM runs ORDER BY finished_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Lookup returns the most recent run for an input path and target
// language, if any.
func (s *Store) Lookup(ctx context.Context, inputPath, targetLang string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT
		id, input_path, output_path, source_language, target_language,
		cue_count, batch_count, duration_ms, finished_at
		FROM runs WHERE input_path = ? AND target_language = ?
		ORDER BY finished_at DESC LIMIT 1`, inputPath, targetLang)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var durationMS int64
	var finishedAt string

	err := row.Scan(
		&rec.ID, &rec.InputPath, &rec.OutputPath,
		&rec.SourceLanguage, &rec.TargetLanguage,
		&rec.CueCount, &rec.BatchCount,
		&durationMS, &finishedAt,
	)
	if err != nil {
		return Record{}, err
	}

	rec.Duration = time.Duration(durationMS) * time.Millisecond
	rec.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt)
	if err != nil {
		return Record{}, fmt.Errorf("parse finished_at: %w", err)
	}
	return rec, nil
}
