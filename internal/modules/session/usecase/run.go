package usecase

import (
	"context"
	"errors"
	"fmt"

	catalogdto "scanmask/internal/modules/catalog/dto"
	"scanmask/internal/modules/session/domain"
	sessiondto "scanmask/internal/modules/session/dto"
	timelinedto "scanmask/internal/modules/timeline/dto"
	apperrors "scanmask/internal/platform/errors"
)

const runEventBuffer = 64

func (i *Interactor) Run(ctx context.Context, input sessiondto.RunInput) (sessiondto.RunOutput, error) {
	if i.engine == nil || i.events == nil {
		return sessiondto.RunOutput{}, fmt.Errorf("timeline engine is not configured")
	}
	if i.activeStore == nil {
		return sessiondto.RunOutput{}, fmt.Errorf("active session store is not configured")
	}
	if active, err := i.activeStore.LoadActive(ctx); err == nil {
		return sessiondto.RunOutput{}, fmt.Errorf("session %s: %w", active.SessionID, apperrors.ErrActiveSessionExists)
	} else if !errors.Is(err, apperrors.ErrNoActiveSession) {
		return sessiondto.RunOutput{}, err
	}

	pattern, profile, err := i.resolve(ctx, input.PatternID, input.ProfileID)
	if err != nil {
		return sessiondto.RunOutput{}, err
	}
	scale := input.VolumeLevel
	if input.UseRecommended {
		assessment, err := i.catalog.Effectiveness(ctx, catalogdto.EffectivenessInput{PatternID: pattern.ID, ProfileID: profile.ID})
		if err != nil {
			return sessiondto.RunOutput{}, err
		}
		scale = timelinedto.Scale(assessment.RecommendedVolume)
	}
	// Without an explicit level the engine keeps its stored scale.
	volume := i.engine.State().BaseVolumeScale
	if scale != nil {
		volume = *scale
	}

	session, err := i.svc.Create(ctx, draft(pattern, profile, volume))
	if err != nil {
		return sessiondto.RunOutput{}, err
	}
	if err := i.activeStore.SaveActive(ctx, session.Active()); err != nil {
		return sessiondto.RunOutput{}, err
	}
	// Bookkeeping after the run must survive the cancellation that ended it.
	cleanup := context.WithoutCancel(ctx)
	defer func() {
		if err := i.activeStore.ClearActive(cleanup); err != nil {
			i.log.Warn("clear active session failed", "session", session.ID, "error", err)
		}
	}()

	events, unsubscribe := i.events.Subscribe(runEventBuffer)
	defer unsubscribe()
	if err := i.engine.Start(startInput(pattern, profile, scale)); err != nil {
		if _, finishErr := i.svc.Finish(cleanup, session, domain.OutcomeStopped); finishErr != nil {
			i.log.Warn("record failed session", "session", session.ID, "error", finishErr)
		}
		return sessiondto.RunOutput{}, err
	}
	run := i.engine.State().Run
	i.log.Info("session started", "session", session.ID, "run", run, "pattern", pattern.Name, "profile", profile.Name, "volume", volume)

	w := watcher{run: run, onEvent: input.OnEvent}
	outcome := w.await(ctx, events, i.engine.Stop, func() { i.engine.State() })

	finished, err := i.svc.Finish(cleanup, session, outcome)
	if err != nil {
		return sessiondto.RunOutput{}, err
	}
	i.log.Info("session finished", "session", finished.ID, "run", run, "outcome", finished.Outcome, "seconds", finished.DurationSeconds())
	return sessiondto.RunOutput{Session: toOutput(finished), Run: run, LastProgress: w.last}, nil
}

// watcher follows the events of a single engine run.
type watcher struct {
	run     uint64
	onEvent func(timelinedto.Event)
	last    timelinedto.Progress
}

// await returns once the run ends. On cancellation it stops the engine
// itself. A natural completion is published as Stopped immediately followed
// by Completed, so a Stopped event is only final after the engine lock has
// been released (barrier) and nothing else is queued for the run.
func (w *watcher) await(ctx context.Context, events <-chan timelinedto.Event, stop func(), barrier func()) domain.Outcome {
	for {
		select {
		case <-ctx.Done():
			stop()
			return w.settle(events)
		case ev, ok := <-events:
			if !ok {
				return domain.OutcomeStopped
			}
			if !w.deliver(ev) {
				continue
			}
			switch ev.Kind {
			case timelinedto.EventCompleted:
				return domain.OutcomeCompleted
			case timelinedto.EventStopped:
				barrier()
				return w.settle(events)
			}
		}
	}
}

func (w *watcher) settle(events <-chan timelinedto.Event) domain.Outcome {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return domain.OutcomeStopped
			}
			if w.deliver(ev) && ev.Kind == timelinedto.EventCompleted {
				return domain.OutcomeCompleted
			}
		default:
			return domain.OutcomeStopped
		}
	}
}

func (w *watcher) deliver(ev timelinedto.Event) bool {
	if ev.Run != w.run {
		return false
	}
	if ev.Kind == timelinedto.EventProgress || ev.Kind == timelinedto.EventCompleted {
		w.last = ev.Progress
	}
	if w.onEvent != nil {
		w.onEvent(ev)
	}
	return true
}

func startInput(pattern catalogdto.PatternOutput, profile catalogdto.ProfileOutput, scale *float64) timelinedto.StartInput {
	phases := make([]timelinedto.Phase, 0, len(pattern.Sequence))
	for _, step := range pattern.Sequence {
		phases = append(phases, timelinedto.Phase{
			FrequencyHz:     float64(step.Frequency),
			DurationSeconds: step.Duration,
			IntensityDB:     float64(step.Intensity),
		})
	}
	return timelinedto.StartInput{
		TotalDurationSeconds: pattern.DurationMinutes * 60,
		Phases:               phases,
		BaseVolumeScale:      scale,
		Track: timelinedto.Track{
			Name:            profile.Name,
			SoundType:       profile.Type,
			BaseFrequencyHz: float64(profile.BaseFrequencyHz),
			FilePath:        profile.FilePath,
		},
	}
}
