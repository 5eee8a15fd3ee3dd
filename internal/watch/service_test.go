package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subtrans/internal/config"
	"subtrans/internal/gemini"
	"subtrans/internal/history"
	"subtrans/internal/pipeline"
	"subtrans/internal/subtitle"
)

// passthroughEngine answers every generation with the uploaded batch
// text, which is always valid SRT.
type passthroughEngine struct {
	mu        sync.Mutex
	payloads  map[string][]byte
	counter   int
	generates int
}

func (e *passthroughEngine) Upload(ctx context.Context, name string, payload []byte) (gemini.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.payloads == nil {
		e.payloads = make(map[string][]byte)
	}
	e.counter++
	handle := fmt.Sprintf("files/%d", e.counter)
	e.payloads[handle] = payload
	return gemini.Handle{Name: handle, URI: handle}, nil
}

func (e *passthroughEngine) Generate(ctx context.Context, prompt string, h gemini.Handle) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generates++
	return string(e.payloads[h.Name]), nil
}

func (e *passthroughEngine) Release(ctx context.Context, h gemini.Handle) error {
	return nil
}

func testService(t *testing.T, dir string, engine gemini.Engine) (*Service, *history.Store) {
	t.Helper()

	cfg := config.Default()
	cfg.Translate.ScratchDir = filepath.Join(dir, "scratch")
	cfg.Watch.Dirs = []string{filepath.Join(dir, "subs")}
	cfg.Watch.Concurrency = 2

	store, err := history.NewStore(filepath.Join(dir, "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return NewService(cfg, pipeline.New(engine), store, nil), store
}

func TestRunOnceTranslatesAndRecords(t *testing.T) {
	dir := t.TempDir()
	subsDir := filepath.Join(dir, "subs")
	input := filepath.Join(subsDir, "ep01.srt")
	touch(t, input)

	engine := &passthroughEngine{}
	svc, store := testService(t, dir, engine)

	require.NoError(t, svc.RunOnce(context.Background()))

	output := filepath.Join(subsDir, "ep01_Chinese.srt")
	track, err := subtitle.ReadFile(output)
	require.NoError(t, err)
	assert.Len(t, track.Cues, 1)

	rec, err := store.Lookup(context.Background(), input, "Chinese")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, output, rec.OutputPath)
	assert.Equal(t, 1, rec.CueCount)
}

func TestRunOnceSkipsCompletedFiles(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "subs", "ep01.srt")
	touch(t, input)

	engine := &passthroughEngine{}
	svc, _ := testService(t, dir, engine)

	require.NoError(t, svc.RunOnce(context.Background()))
	first := engine.generates

	// The output sibling now exists, so a rescan finds nothing to do.
	require.NoError(t, svc.RunOnce(context.Background()))
	assert.Equal(t, first, engine.generates)
}

func TestRunOnceSkipsFilesWithHistoryRecord(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "subs", "ep01.srt")
	touch(t, input)

	engine := &passthroughEngine{}
	svc, store := testService(t, dir, engine)

	// Pre-record the file as translated even though no output exists.
	_, err := store.Record(context.Background(), history.Record{
		InputPath: input, OutputPath: "elsewhere",
		SourceLanguage: "English", TargetLanguage: "Chinese",
	})
	require.NoError(t, err)

	require.NoError(t, svc.RunOnce(context.Background()))
	assert.Equal(t, 0, engine.generates)
	assert.NoFileExists(t, filepath.Join(dir, "subs", "ep01_Chinese.srt"))
}
