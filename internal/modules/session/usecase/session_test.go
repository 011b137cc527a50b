package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdto "scanmask/internal/modules/catalog/dto"
	sessionout "scanmask/internal/modules/session/adapter/out"
	"scanmask/internal/modules/session/domain"
	sessiondto "scanmask/internal/modules/session/dto"
	sessionin "scanmask/internal/modules/session/port/in"
	"scanmask/internal/modules/session/service"
	"scanmask/internal/modules/session/usecase"
	timelineout "scanmask/internal/modules/timeline/adapter/out"
	timelinedto "scanmask/internal/modules/timeline/dto"
	timelineservice "scanmask/internal/modules/timeline/service"
	"scanmask/internal/platform/clock"
	apperrors "scanmask/internal/platform/errors"
	"scanmask/internal/platform/logging"
)

type fakeID struct{}

func (fakeID) New() string { return "sess-1" }

type fakeCatalog struct {
	pattern     catalogdto.PatternOutput
	profile     catalogdto.ProfileOutput
	recommended float64
}

func (f *fakeCatalog) ListPatterns(context.Context) ([]catalogdto.PatternOutput, error) {
	return []catalogdto.PatternOutput{f.pattern}, nil
}

func (f *fakeCatalog) GetPattern(_ context.Context, id string) (catalogdto.PatternOutput, error) {
	if id != f.pattern.ID {
		return catalogdto.PatternOutput{}, apperrors.ErrNotFound
	}
	return f.pattern, nil
}

func (f *fakeCatalog) CreatePattern(context.Context, catalogdto.CreatePatternInput) (catalogdto.PatternOutput, error) {
	return catalogdto.PatternOutput{}, nil
}

func (f *fakeCatalog) ListProfiles(context.Context) ([]catalogdto.ProfileOutput, error) {
	return []catalogdto.ProfileOutput{f.profile}, nil
}

func (f *fakeCatalog) GetProfile(_ context.Context, id string) (catalogdto.ProfileOutput, error) {
	if id != f.profile.ID {
		return catalogdto.ProfileOutput{}, apperrors.ErrNotFound
	}
	return f.profile, nil
}

func (f *fakeCatalog) CreateProfile(context.Context, catalogdto.CreateProfileInput) (catalogdto.ProfileOutput, error) {
	return catalogdto.ProfileOutput{}, nil
}

func (f *fakeCatalog) Effectiveness(context.Context, catalogdto.EffectivenessInput) (catalogdto.EffectivenessOutput, error) {
	return catalogdto.EffectivenessOutput{RecommendedVolume: f.recommended}, nil
}

func (f *fakeCatalog) SeedDefaults(context.Context) (catalogdto.SeedOutput, error) {
	return catalogdto.SeedOutput{}, nil
}

type harness struct {
	uc        sessionin.Usecase
	engine    *timelineservice.Engine
	scheduler *clock.ManualScheduler
	clock     *clock.StepClock
	active    string
	root      string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	root := t.TempDir()
	store, err := sessionout.NewSQLiteSessionStore(filepath.Join(root, "scanmask.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	clk := clock.NewStepClock(time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC))
	scheduler := clock.NewManualScheduler()
	hub := timelineservice.NewHub()
	engine := timelineservice.NewEngine(scheduler, timelineout.NewMultiSink(), hub, logging.Discard(), time.Second)
	catalog := &fakeCatalog{
		pattern: catalogdto.PatternOutput{
			ID: "pat-1", Name: "Quick Scan", DurationMinutes: 1, NoiseFrequencyHz: 2000, NoiseIntensityDB: 120,
			Sequence: []catalogdto.Step{{Frequency: 2000, Duration: 30, Intensity: 120}, {Frequency: 1500, Duration: 30, Intensity: 60}},
		},
		profile:     catalogdto.ProfileOutput{ID: "prof-1", Name: "Ocean Waves", Type: "nature", BaseFrequencyHz: 500},
		recommended: 0.9,
	}
	activeDir := filepath.Join(root, ".scanmask")
	svc := service.NewSessionService(clk, fakeID{}, store, sessionout.NewMarkdownNoteStore(root))
	uc := usecase.NewInteractor(svc, catalog, sessionout.NewFileActiveSessionStore(activeDir), engine, hub, logging.Discard())
	return &harness{uc: uc, engine: engine, scheduler: scheduler, clock: clk, active: activeDir, root: root}
}

type runResult struct {
	out sessiondto.RunOutput
	err error
}

func (h *harness) startRun(t *testing.T, ctx context.Context, input sessiondto.RunInput) <-chan runResult {
	t.Helper()
	done := make(chan runResult, 1)
	go func() {
		out, err := h.uc.Run(ctx, input)
		done <- runResult{out: out, err: err}
	}()
	require.Eventually(t, func() bool {
		return h.engine.State().Status == "running"
	}, 2*time.Second, time.Millisecond)
	return done
}

func wait(t *testing.T, done <-chan runResult) runResult {
	t.Helper()
	select {
	case r := <-done:
		return r
	case <-time.After(5 * time.Second):
		t.Fatalf("run did not return")
		return runResult{}
	}
}

func TestRunCompletesAndRecordsSession(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	var mu sync.Mutex
	var kinds []timelinedto.EventKind
	done := h.startRun(t, context.Background(), sessiondto.RunInput{
		PatternID: "pat-1", ProfileID: "prof-1", VolumeLevel: timelinedto.Scale(0.5),
		OnEvent: func(ev timelinedto.Event) {
			mu.Lock()
			kinds = append(kinds, ev.Kind)
			mu.Unlock()
		},
	})

	active, err := h.uc.GetActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sess-1", active.SessionID)
	assert.Equal(t, "Quick Scan", active.PatternName)

	h.clock.Add(time.Minute)
	h.scheduler.Advance(60)
	r := wait(t, done)
	require.NoError(t, r.err)

	assert.Equal(t, "completed", r.out.Session.Outcome)
	assert.True(t, r.out.Session.Completed)
	assert.Equal(t, 60, r.out.Session.DurationSeconds)
	assert.Equal(t, uint64(1), r.out.Run)
	assert.InDelta(t, 100, r.out.LastProgress.ProgressPercent, 1e-9)
	assert.Equal(t, "idle", h.engine.State().Status)
	assert.Equal(t, 0, h.scheduler.Active())

	mu.Lock()
	require.GreaterOrEqual(t, len(kinds), 2)
	assert.Equal(t, []timelinedto.EventKind{timelinedto.EventStopped, timelinedto.EventCompleted}, kinds[len(kinds)-2:])
	mu.Unlock()

	_, err = h.uc.GetActive(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrNoActiveSession)

	note, err := h.uc.Note(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Contains(t, note.Body, "- Outcome: completed")
	_, err = os.Stat(note.Path)
	require.NoError(t, err)
}

func TestRunStopsOnCancellation(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := h.startRun(t, ctx, sessiondto.RunInput{PatternID: "pat-1", ProfileID: "prof-1", VolumeLevel: timelinedto.Scale(0.7)})
	h.scheduler.Advance(10)
	h.clock.Add(10 * time.Second)
	cancel()
	r := wait(t, done)
	require.NoError(t, r.err)

	assert.Equal(t, "stopped", r.out.Session.Outcome)
	assert.False(t, r.out.Session.Completed)
	assert.Equal(t, 10, r.out.LastProgress.ElapsedSeconds)
	assert.Equal(t, "idle", h.engine.State().Status)

	stored, err := h.uc.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "stopped", stored.Outcome)
	assert.False(t, stored.EndTime.IsZero())
}

func TestRunEndsWhenEngineIsStoppedElsewhere(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	done := h.startRun(t, context.Background(), sessiondto.RunInput{PatternID: "pat-1", ProfileID: "prof-1", UseRecommended: true})
	assert.InDelta(t, 0.9, h.engine.State().BaseVolumeScale, 1e-9)
	h.scheduler.Advance(5)
	h.engine.Stop()
	r := wait(t, done)
	require.NoError(t, r.err)

	assert.Equal(t, "stopped", r.out.Session.Outcome)
	assert.InDelta(t, 0.9, r.out.Session.VolumeLevel, 1e-9)
}

func TestRunWithoutVolumeUsesEngineScale(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	require.NoError(t, h.engine.SetVolumeScale(0.3))

	done := h.startRun(t, context.Background(), sessiondto.RunInput{PatternID: "pat-1", ProfileID: "prof-1"})
	assert.InDelta(t, 0.3, h.engine.State().BaseVolumeScale, 1e-9)
	h.engine.Stop()
	r := wait(t, done)
	require.NoError(t, r.err)
	assert.InDelta(t, 0.3, r.out.Session.VolumeLevel, 1e-9)
}

func TestRunRefusesWhileAnotherSessionIsActive(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	marker := sessionout.NewFileActiveSessionStore(h.active)
	require.NoError(t, marker.SaveActive(context.Background(), domain.ActiveSession{SessionID: "other"}))

	_, err := h.uc.Run(context.Background(), sessiondto.RunInput{PatternID: "pat-1", ProfileID: "prof-1", VolumeLevel: timelinedto.Scale(0.7)})
	require.ErrorIs(t, err, apperrors.ErrActiveSessionExists)
	assert.Equal(t, "idle", h.engine.State().Status)
}

func TestRunRejectsUnknownIdsAndBadVolume(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.uc.Run(ctx, sessiondto.RunInput{PatternID: "nope", ProfileID: "prof-1", VolumeLevel: timelinedto.Scale(0.7)})
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = h.uc.Run(ctx, sessiondto.RunInput{PatternID: "pat-1", ProfileID: "prof-1", VolumeLevel: timelinedto.Scale(1.5)})
	require.ErrorIs(t, err, apperrors.ErrInvalidVolume)

	_, err = h.uc.GetActive(ctx)
	assert.ErrorIs(t, err, apperrors.ErrNoActiveSession)
	assert.Equal(t, uint64(0), h.engine.State().Run)
}

func rating(v int) *int {
	return &v
}

func TestCompleteWithoutRating(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	created, err := h.uc.Create(ctx, sessiondto.CreateInput{PatternID: "pat-1", ProfileID: "prof-1", VolumeLevel: 0.6})
	require.NoError(t, err)
	h.clock.Add(5 * time.Minute)

	done, err := h.uc.Complete(ctx, sessiondto.CompleteInput{SessionID: created.ID})
	require.NoError(t, err)
	assert.Nil(t, done.ComfortRating)
	assert.True(t, done.Completed)
	assert.Equal(t, "completed", done.Outcome)
	assert.Equal(t, 300, done.DurationSeconds)

	stored, err := h.uc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ComfortRating)
	assert.True(t, stored.Completed)
}

func TestCreateAndCompleteWithRating(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.uc.Create(ctx, sessiondto.CreateInput{PatternID: "pat-1", ProfileID: "missing", VolumeLevel: 0.7})
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)

	created, err := h.uc.Create(ctx, sessiondto.CreateInput{PatternID: "pat-1", ProfileID: "prof-1", VolumeLevel: 0.6})
	require.NoError(t, err)
	assert.False(t, created.Completed)
	assert.Nil(t, created.ComfortRating)
	assert.Equal(t, "Ocean Waves", created.ProfileName)

	_, err = h.uc.Complete(ctx, sessiondto.CompleteInput{SessionID: created.ID, ComfortRating: rating(11)})
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = h.uc.Complete(ctx, sessiondto.CompleteInput{SessionID: "missing", ComfortRating: rating(5)})
	require.True(t, errors.Is(err, apperrors.ErrNotFound), "got %v", err)

	h.clock.Add(20 * time.Minute)
	done, err := h.uc.Complete(ctx, sessiondto.CompleteInput{SessionID: created.ID, ComfortRating: rating(7)})
	require.NoError(t, err)
	require.NotNil(t, done.ComfortRating)
	assert.Equal(t, 7, *done.ComfortRating)
	assert.True(t, done.Completed)
	assert.Equal(t, "completed", done.Outcome)
	assert.Equal(t, 1200, done.DurationSeconds)
	assert.NotEmpty(t, done.NotePath)

	list, err := h.uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	note, err := h.uc.Note(ctx, created.ID)
	require.NoError(t, err)
	assert.Contains(t, note.Body, "- Comfort: 7/10")
}
