package service

import (
	"context"
	"fmt"
	"strings"

	"scanmask/internal/modules/session/domain"
	sessionout "scanmask/internal/modules/session/port/out"
	"scanmask/internal/platform/clock"
	apperrors "scanmask/internal/platform/errors"
	"scanmask/internal/platform/id"
)

type SessionService struct {
	clock clock.Clock
	idGen id.Generator
	store sessionout.SessionStore
	notes sessionout.NoteStore
}

func NewSessionService(clock clock.Clock, idGen id.Generator, store sessionout.SessionStore, notes sessionout.NoteStore) *SessionService {
	return &SessionService{clock: clock, idGen: idGen, store: store, notes: notes}
}

// Create records a new session for draft's pattern and profile. Identity and
// start time are assigned here; every other field except the names is reset.
func (s *SessionService) Create(ctx context.Context, draft domain.Session) (domain.Session, error) {
	if strings.TrimSpace(draft.PatternID) == "" {
		return domain.Session{}, fmt.Errorf("%w: pattern id is required", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(draft.ProfileID) == "" {
		return domain.Session{}, fmt.Errorf("%w: profile id is required", apperrors.ErrInvalidInput)
	}
	if err := domain.ValidateVolumeLevel(draft.VolumeLevel); err != nil {
		return domain.Session{}, err
	}
	session := domain.Session{
		ID:          s.idGen.New(),
		PatternID:   draft.PatternID,
		PatternName: draft.PatternName,
		ProfileID:   draft.ProfileID,
		ProfileName: draft.ProfileName,
		StartTime:   s.clock.Now(),
		VolumeLevel: draft.VolumeLevel,
	}
	if err := s.store.Save(ctx, session); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

// Finish closes the session's timeline with outcome and writes its note.
func (s *SessionService) Finish(ctx context.Context, session domain.Session, outcome domain.Outcome) (domain.Session, error) {
	session.EndTime = s.clock.Now()
	session.Outcome = outcome
	session.Completed = outcome == domain.OutcomeCompleted
	return s.persist(ctx, session)
}

// Complete marks the session completed and stores the patient's comfort
// rating when one is given. A session that was never finished is ended now.
func (s *SessionService) Complete(ctx context.Context, sessionID string, rating *int) (domain.Session, error) {
	if rating != nil {
		if err := domain.ValidateComfortRating(*rating); err != nil {
			return domain.Session{}, err
		}
	}
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return domain.Session{}, err
	}
	if rating != nil {
		r := *rating
		session.ComfortRating = &r
	}
	session.Completed = true
	if !session.Ended() {
		session.EndTime = s.clock.Now()
	}
	if session.Outcome == domain.OutcomePending {
		session.Outcome = domain.OutcomeCompleted
	}
	return s.persist(ctx, session)
}

func (s *SessionService) Get(ctx context.Context, sessionID string) (domain.Session, error) {
	if strings.TrimSpace(sessionID) == "" {
		return domain.Session{}, fmt.Errorf("%w: session id is required", apperrors.ErrInvalidInput)
	}
	return s.store.Find(ctx, sessionID)
}

func (s *SessionService) persist(ctx context.Context, session domain.Session) (domain.Session, error) {
	if s.notes != nil {
		path, err := s.notes.WriteNote(ctx, session)
		if err != nil {
			return domain.Session{}, err
		}
		session.NotePath = path
	}
	if err := s.store.Save(ctx, session); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

func (s *SessionService) List(ctx context.Context) ([]domain.Session, error) {
	return s.store.List(ctx)
}

// Note returns the body of the session's note without its frontmatter.
func (s *SessionService) Note(ctx context.Context, sessionID string) (string, string, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return "", "", err
	}
	if session.NotePath == "" || s.notes == nil {
		return "", "", fmt.Errorf("session %s has no note: %w", session.ID, apperrors.ErrNotFound)
	}
	body, err := s.notes.ReadNote(ctx, session.NotePath)
	if err != nil {
		return "", "", err
	}
	return session.NotePath, body, nil
}
