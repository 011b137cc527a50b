package service

import (
	"log/slog"
	"sync"
	"time"

	"scanmask/internal/modules/timeline/domain"
	"scanmask/internal/modules/timeline/dto"
	timelineout "scanmask/internal/modules/timeline/port/out"
)

const DefaultTickInterval = time.Second

// Engine advances a scan pattern one tick at a time and drives the audio
// sink from it. All state lives behind mu; scheduled ticks carry the run
// number they were started for and are dropped once that run is no longer
// the running one, so nothing is emitted for a run after Stop returns.
type Engine struct {
	mu        sync.Mutex
	scheduler timelineout.Scheduler
	audio     timelineout.AudioSink
	sink      timelineout.ProgressSink
	log       *slog.Logger
	interval  time.Duration

	baseScale float64
	pattern   domain.ScanPattern
	state     domain.State
	run       uint64
	cancel    func()
}

func NewEngine(scheduler timelineout.Scheduler, audio timelineout.AudioSink, sink timelineout.ProgressSink, log *slog.Logger, interval time.Duration) *Engine {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Engine{
		scheduler: scheduler,
		audio:     audio,
		sink:      sink,
		log:       log,
		interval:  interval,
		state:     domain.State{Status: domain.StatusIdle},
	}
}

func (e *Engine) Start(input dto.StartInput) error {
	pattern := toPattern(input)
	if err := pattern.Validate(); err != nil {
		return err
	}
	if input.BaseVolumeScale != nil {
		if err := domain.ValidateVolumeScale(*input.BaseVolumeScale); err != nil {
			return err
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Status == domain.StatusRunning {
		e.log.Info("restarting timeline", "run", e.run)
		e.stopLocked()
	}

	e.run++
	run := e.run
	e.pattern = pattern
	if input.BaseVolumeScale != nil {
		e.baseScale = *input.BaseVolumeScale
	}
	e.state = domain.State{Status: domain.StatusRunning}

	e.pushVolumeLocked()
	if err := e.audio.Play(input.Track); err != nil {
		e.log.Warn("audio play failed", "run", run, "track", input.Track.Name, "error", err)
	}
	e.publishLocked(dto.EventProgress)

	e.cancel = e.scheduler.Every(e.interval, func() { e.tick(run) })
	e.log.Info("timeline started", "run", run,
		"total_seconds", pattern.TotalDurationSeconds,
		"phases", len(pattern.Phases),
		"base_volume", e.baseScale,
	)
	return nil
}

func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Status != domain.StatusRunning {
		return
	}
	e.stopLocked()
}

func (e *Engine) SetVolumeScale(scale float64) error {
	if err := domain.ValidateVolumeScale(scale); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.baseScale = scale
	if e.state.Status == domain.StatusRunning {
		e.pushVolumeLocked()
	}
	return nil
}

func (e *Engine) State() dto.StateOutput {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := dto.StateOutput{
		Status:          string(e.state.Status),
		Run:             e.run,
		BaseVolumeScale: e.baseScale,
	}
	if e.state.Status != domain.StatusRunning {
		return out
	}
	progress := e.progressLocked()
	out.ElapsedSeconds = e.state.ElapsedSeconds
	out.CurrentPhaseIndex = e.state.CurrentPhaseIndex
	out.PhaseElapsedSeconds = e.state.PhaseElapsedSeconds
	out.TotalDurationSeconds = e.pattern.TotalDurationSeconds
	out.PhaseCount = len(e.pattern.Phases)
	out.AppliedVolume = progress.AppliedVolume
	out.ProgressPercent = progress.ProgressPercent
	out.RemainingSeconds = progress.RemainingSeconds
	out.PhaseLabel = progress.PhaseLabel
	return out
}

func (e *Engine) tick(run uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if run != e.run || e.state.Status != domain.StatusRunning {
		return
	}

	before := e.state.CurrentPhaseIndex
	e.state = e.state.Advance(e.pattern)
	if e.state.CurrentPhaseIndex != before {
		e.log.Debug("phase advanced", "run", run, "phase", e.state.CurrentPhaseIndex, "elapsed", e.state.ElapsedSeconds)
	}
	e.pushVolumeLocked()
	e.publishLocked(dto.EventProgress)

	if !e.state.Done(e.pattern) {
		return
	}
	completion := dto.Completion{
		TotalDurationSeconds: e.pattern.TotalDurationSeconds,
		PhasesVisited:        e.state.CurrentPhaseIndex + 1,
	}
	e.stopLocked()
	e.sink.Publish(dto.Event{
		Kind:       dto.EventCompleted,
		Run:        run,
		Progress:   dto.Progress{ProgressPercent: 100},
		Completion: &completion,
	})
	e.log.Info("timeline completed", "run", run, "total_seconds", completion.TotalDurationSeconds)
}

func (e *Engine) stopLocked() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	run := e.run
	e.state = domain.State{Status: domain.StatusIdle}
	e.pattern = domain.ScanPattern{}
	if err := e.audio.Stop(); err != nil {
		e.log.Warn("audio stop failed", "run", run, "error", err)
	}
	e.sink.Publish(dto.Event{Kind: dto.EventStopped, Run: run})
	e.log.Info("timeline stopped", "run", run)
}

func (e *Engine) pushVolumeLocked() {
	phase := e.pattern.Phases[e.state.CurrentPhaseIndex]
	level := domain.AppliedVolume(e.baseScale, phase)
	if err := e.audio.SetVolume(level); err != nil {
		e.log.Warn("audio set volume failed", "run", e.run, "level", level, "error", err)
	}
}

func (e *Engine) publishLocked(kind dto.EventKind) {
	e.sink.Publish(dto.Event{Kind: kind, Run: e.run, Progress: e.progressLocked()})
}

func (e *Engine) progressLocked() dto.Progress {
	idx := e.state.CurrentPhaseIndex
	phase := e.pattern.Phases[idx]
	return dto.Progress{
		ProgressPercent:  e.state.ProgressPercent(e.pattern),
		RemainingSeconds: e.state.RemainingSeconds(e.pattern),
		ElapsedSeconds:   e.state.ElapsedSeconds,
		PhaseIndex:       idx,
		PhaseLabel:       domain.PhaseLabel(idx, phase),
		AppliedVolume:    domain.AppliedVolume(e.baseScale, phase),
	}
}

func toPattern(input dto.StartInput) domain.ScanPattern {
	phases := make([]domain.Phase, 0, len(input.Phases))
	for _, p := range input.Phases {
		phases = append(phases, domain.Phase{
			FrequencyHz:     p.FrequencyHz,
			DurationSeconds: p.DurationSeconds,
			IntensityDB:     p.IntensityDB,
		})
	}
	return domain.ScanPattern{TotalDurationSeconds: input.TotalDurationSeconds, Phases: phases}
}
