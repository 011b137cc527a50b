package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sessiondto "scanmask/internal/modules/session/dto"
	timelinedto "scanmask/internal/modules/timeline/dto"
	"scanmask/internal/platform/clock"
	"scanmask/internal/platform/config"
	"scanmask/internal/platform/logging"
)

func newTestApp(t *testing.T) (*App, *clock.ManualScheduler) {
	t.Helper()
	cfg, err := config.New(t.TempDir())
	require.NoError(t, err)
	scheduler := clock.NewManualScheduler()
	app, err := New(cfg, logging.Discard(), scheduler)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app, scheduler
}

func TestSessionRunEndToEnd(t *testing.T) {
	t.Parallel()
	app, scheduler := newTestApp(t)
	ctx := context.Background()

	seeded, err := app.CatalogCLI.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, seeded.ProfilesAdded)
	profiles, err := app.CatalogCLI.ListProfiles(ctx)
	require.NoError(t, err)
	pattern, err := app.CatalogCLI.CreatePattern(ctx, "Calibration", 1, 1200, 110, nil)
	require.NoError(t, err)

	done := make(chan error, 1)
	var out sessiondto.RunOutput
	go func() {
		var runErr error
		out, runErr = app.SessionCLI.Run(ctx, sessiondto.RunInput{PatternID: pattern.ID, ProfileID: profiles[0].ID, VolumeLevel: timelinedto.Scale(0.6)})
		done <- runErr
	}()
	require.Eventually(t, func() bool { return app.Engine.State().Status == "running" }, 2*time.Second, time.Millisecond)
	scheduler.Advance(60)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("session run did not finish")
	}
	assert.Equal(t, "completed", out.Session.Outcome)
	assert.FileExists(t, out.Session.NotePath)
	require.NotEmpty(t, app.Synth.LastRender())
	info, err := os.Stat(app.Synth.LastRender())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, info.Size(), int64(44))

	list, err := app.SessionCLI.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Completed)
}

func TestEngineStartsWithConfiguredVolume(t *testing.T) {
	t.Parallel()
	app, _ := newTestApp(t)
	assert.InDelta(t, app.Config.DefaultVolume, app.Engine.State().BaseVolumeScale, 1e-9)
}

func TestServeProgressReportsStatus(t *testing.T) {
	t.Parallel()
	app, _ := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr, err := app.ServeProgress(ctx, "127.0.0.1:0")
	require.NoError(t, err)

	resp, err := http.Get("http://" + addr + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	var state timelinedto.StateOutput
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	assert.Equal(t, "idle", state.Status)
}
