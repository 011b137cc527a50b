package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	cataloginadapter "scanmask/internal/modules/catalog/adapter/in"
	catalogoutadapter "scanmask/internal/modules/catalog/adapter/out"
	catalogservice "scanmask/internal/modules/catalog/service"
	catalogusecase "scanmask/internal/modules/catalog/usecase"
	sessioninadapter "scanmask/internal/modules/session/adapter/in"
	sessionoutadapter "scanmask/internal/modules/session/adapter/out"
	sessiondto "scanmask/internal/modules/session/dto"
	sessionservice "scanmask/internal/modules/session/service"
	sessionusecase "scanmask/internal/modules/session/usecase"
	timelineinadapter "scanmask/internal/modules/timeline/adapter/in"
	timelineoutadapter "scanmask/internal/modules/timeline/adapter/out"
	timelinedto "scanmask/internal/modules/timeline/dto"
	timelinein "scanmask/internal/modules/timeline/port/in"
	timelineout "scanmask/internal/modules/timeline/port/out"
	timelineservice "scanmask/internal/modules/timeline/service"
	"scanmask/internal/platform/clock"
	"scanmask/internal/platform/config"
	"scanmask/internal/platform/id"
	uiapp "scanmask/internal/ui/app"
	sessionview "scanmask/internal/ui/views/session"
)

type App struct {
	Config     config.Config
	Log        *slog.Logger
	CatalogCLI cataloginadapter.CLIHandler
	SessionCLI sessioninadapter.CLIHandler
	Engine     timelinein.Engine
	Progress   *timelineinadapter.Server
	Synth      *timelineoutadapter.SynthSink

	closers []func() error
}

// New wires the application. The scheduler is injectable so tests can
// drive the engine in virtual time; nil means a real ticker.
func New(cfg config.Config, log *slog.Logger, scheduler timelineout.Scheduler) (*App, error) {
	clk := clock.SystemClock{}
	ids := id.UUID{}
	if scheduler == nil {
		scheduler = clock.TickerScheduler{}
	}
	app := &App{Config: cfg, Log: log}

	catalogStore, err := catalogoutadapter.NewSQLiteCatalogStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new catalog store: %w", err)
	}
	app.closers = append(app.closers, catalogStore.Close)
	catalogUC := catalogusecase.NewInteractor(
		catalogservice.NewCatalogService(clk, ids, catalogStore, catalogStore),
		catalogStore,
		catalogStore,
	)

	synth := timelineoutadapter.NewSynthSink(clk, cfg.RenderDir, log.With("sink", "synth"), uint64(time.Now().UnixNano()))
	sinks := []timelineout.AudioSink{synth}
	if cfg.Player.Command != "" {
		sinks = append(sinks, timelineoutadapter.NewPlayerSink(cfg.Player.Command, cfg.Player.Args, cfg.SoundDir, log.With("sink", "player")))
	}
	hub := timelineservice.NewHub()
	engine := timelineservice.NewEngine(scheduler, timelineoutadapter.NewMultiSink(sinks...), hub, log.With("component", "timeline"), cfg.TickInterval)
	if err := engine.SetVolumeScale(cfg.DefaultVolume); err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("default volume: %w", err)
	}

	sessionStore, err := sessionoutadapter.NewSQLiteSessionStore(cfg.DBPath)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("new session store: %w", err)
	}
	app.closers = append(app.closers, sessionStore.Close)
	sessionUC := sessionusecase.NewInteractor(
		sessionservice.NewSessionService(clk, ids, sessionStore, sessionoutadapter.NewMarkdownNoteStore(cfg.DataDir)),
		catalogUC,
		sessionoutadapter.NewFileActiveSessionStore(cfg.StateDir()),
		engine,
		hub,
		log.With("component", "session"),
	)

	app.CatalogCLI = cataloginadapter.NewCLIHandler(catalogUC)
	app.SessionCLI = sessioninadapter.NewCLIHandler(sessionUC)
	app.Engine = engine
	app.Progress = timelineinadapter.NewServer(engine, hub, log.With("component", "progress"))
	app.Synth = synth
	return app, nil
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// ServeProgress exposes the live progress endpoints on addr until ctx is
// done. It returns the bound address, which matters when addr uses port 0.
func (a *App) ServeProgress(ctx context.Context, addr string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("listen %s: %w", addr, err)
	}
	bound := ln.Addr().String()
	if _, port, err := net.SplitHostPort(bound); err == nil {
		a.Progress.AllowOrigins(bound, "localhost:"+port, "127.0.0.1:"+port)
	}
	go func() {
		if err := a.Progress.Serve(ctx, ln); err != nil {
			a.Log.Error("progress server stopped", "error", err)
		}
	}()
	a.Log.Info("progress server listening", "addr", bound)
	return bound, nil
}

// RunSessionTUI runs a session while showing it in the terminal. Quitting
// the program stops the engine; the session is still recorded.
func RunSessionTUI(ctx context.Context, app *App, input sessiondto.RunInput, title string) (sessiondto.RunOutput, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	volume := app.Engine.State().BaseVolumeScale
	if input.VolumeLevel != nil {
		volume = *input.VolumeLevel
	}
	view := sessionview.New(app.Engine, title, volume)
	program := tea.NewProgram(uiapp.NewModel(view), tea.WithAltScreen(), tea.WithContext(ctx))

	input.OnEvent = func(ev timelinedto.Event) {
		program.Send(sessionview.EventMsg{Event: ev})
	}
	done := make(chan uiapp.FinishedMsg, 1)
	go func() {
		out, err := app.SessionCLI.Run(runCtx, input)
		msg := uiapp.FinishedMsg{Output: out, Err: err}
		done <- msg
		program.Send(msg)
	}()

	_, progErr := program.Run()
	cancel()
	result := <-done
	if result.Err != nil {
		return result.Output, result.Err
	}
	if progErr != nil && !errors.Is(progErr, tea.ErrProgramKilled) {
		return result.Output, fmt.Errorf("run tui: %w", progErr)
	}
	return result.Output, nil
}
