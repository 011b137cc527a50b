package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	catalogdto "scanmask/internal/modules/catalog/dto"
	catalogin "scanmask/internal/modules/catalog/port/in"
	"scanmask/internal/modules/session/domain"
	sessiondto "scanmask/internal/modules/session/dto"
	sessionin "scanmask/internal/modules/session/port/in"
	sessionout "scanmask/internal/modules/session/port/out"
	"scanmask/internal/modules/session/service"
	timelinein "scanmask/internal/modules/timeline/port/in"
	apperrors "scanmask/internal/platform/errors"
)

type Interactor struct {
	svc         *service.SessionService
	catalog     catalogin.Usecase
	activeStore sessionout.ActiveSessionStore
	engine      timelinein.Engine
	events      timelinein.Events
	log         *slog.Logger
}

func NewInteractor(
	svc *service.SessionService,
	catalog catalogin.Usecase,
	activeStore sessionout.ActiveSessionStore,
	engine timelinein.Engine,
	events timelinein.Events,
	log *slog.Logger,
) sessionin.Usecase {
	return &Interactor{svc: svc, catalog: catalog, activeStore: activeStore, engine: engine, events: events, log: log}
}

func (i *Interactor) Create(ctx context.Context, input sessiondto.CreateInput) (sessiondto.SessionOutput, error) {
	pattern, profile, err := i.resolve(ctx, input.PatternID, input.ProfileID)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	session, err := i.svc.Create(ctx, draft(pattern, profile, input.VolumeLevel))
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return toOutput(session), nil
}

func (i *Interactor) Complete(ctx context.Context, input sessiondto.CompleteInput) (sessiondto.SessionOutput, error) {
	session, err := i.svc.Complete(ctx, input.SessionID, input.ComfortRating)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return toOutput(session), nil
}

func (i *Interactor) Get(ctx context.Context, id string) (sessiondto.SessionOutput, error) {
	session, err := i.svc.Get(ctx, id)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return toOutput(session), nil
}

func (i *Interactor) List(ctx context.Context) ([]sessiondto.SessionOutput, error) {
	sessions, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]sessiondto.SessionOutput, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toOutput(s))
	}
	return out, nil
}

func (i *Interactor) GetActive(ctx context.Context) (sessiondto.ActiveSessionOutput, error) {
	if i.activeStore == nil {
		return sessiondto.ActiveSessionOutput{}, apperrors.ErrNoActiveSession
	}
	active, err := i.activeStore.LoadActive(ctx)
	if err != nil {
		return sessiondto.ActiveSessionOutput{}, err
	}
	return sessiondto.ActiveSessionOutput{
		SessionID:   active.SessionID,
		PatternID:   active.PatternID,
		PatternName: active.PatternName,
		ProfileID:   active.ProfileID,
		ProfileName: active.ProfileName,
		StartedAt:   active.StartedAt,
	}, nil
}

func (i *Interactor) Note(ctx context.Context, id string) (sessiondto.NoteOutput, error) {
	path, body, err := i.svc.Note(ctx, id)
	if err != nil {
		return sessiondto.NoteOutput{}, err
	}
	return sessiondto.NoteOutput{Path: path, Body: body}, nil
}

// resolve looks up both catalog entries. Unknown ids are caller mistakes, so
// not-found is reported as invalid input.
func (i *Interactor) resolve(ctx context.Context, patternID, profileID string) (catalogdto.PatternOutput, catalogdto.ProfileOutput, error) {
	if i.catalog == nil {
		return catalogdto.PatternOutput{}, catalogdto.ProfileOutput{}, fmt.Errorf("catalog usecase is not configured")
	}
	pattern, err := i.catalog.GetPattern(ctx, patternID)
	if err != nil {
		return catalogdto.PatternOutput{}, catalogdto.ProfileOutput{}, asInvalid("pattern", patternID, err)
	}
	profile, err := i.catalog.GetProfile(ctx, profileID)
	if err != nil {
		return catalogdto.PatternOutput{}, catalogdto.ProfileOutput{}, asInvalid("profile", profileID, err)
	}
	return pattern, profile, nil
}

func asInvalid(kind, id string, err error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("%w: unknown %s %q", apperrors.ErrInvalidInput, kind, id)
	}
	return err
}

func draft(pattern catalogdto.PatternOutput, profile catalogdto.ProfileOutput, volume float64) domain.Session {
	return domain.Session{
		PatternID:   pattern.ID,
		PatternName: pattern.Name,
		ProfileID:   profile.ID,
		ProfileName: profile.Name,
		VolumeLevel: volume,
	}
}

func toOutput(s domain.Session) sessiondto.SessionOutput {
	return sessiondto.SessionOutput{
		ID:              s.ID,
		PatternID:       s.PatternID,
		PatternName:     s.PatternName,
		ProfileID:       s.ProfileID,
		ProfileName:     s.ProfileName,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		DurationSeconds: s.DurationSeconds(),
		ComfortRating:   s.ComfortRating,
		VolumeLevel:     s.VolumeLevel,
		Completed:       s.Completed,
		Outcome:         string(s.Outcome),
		NotePath:        s.NotePath,
	}
}
