package domain

import (
	"fmt"
	"math"
	"time"

	apperrors "scanmask/internal/platform/errors"
)

const (
	SchemaVersion      = 1
	DefaultVolumeLevel = 0.7
	MinComfortRating   = 1
	MaxComfortRating   = 10
)

type Outcome string

const (
	OutcomePending   Outcome = ""
	OutcomeCompleted Outcome = "completed"
	OutcomeStopped   Outcome = "stopped"
)

// ActiveSession marks the session whose timeline is currently running. It
// carries identity only; timeline progress is never persisted.
type ActiveSession struct {
	SessionID   string    `json:"session_id"`
	PatternID   string    `json:"pattern_id"`
	PatternName string    `json:"pattern_name"`
	ProfileID   string    `json:"profile_id"`
	ProfileName string    `json:"profile_name"`
	StartedAt   time.Time `json:"started_at"`
}

type Session struct {
	ID            string
	PatternID     string
	PatternName   string
	ProfileID     string
	ProfileName   string
	StartTime     time.Time
	EndTime       time.Time
	ComfortRating *int
	VolumeLevel   float64
	Completed     bool
	Outcome       Outcome
	NotePath      string
}

func (s Session) Active() ActiveSession {
	return ActiveSession{
		SessionID:   s.ID,
		PatternID:   s.PatternID,
		PatternName: s.PatternName,
		ProfileID:   s.ProfileID,
		ProfileName: s.ProfileName,
		StartedAt:   s.StartTime,
	}
}

// Ended reports whether the timeline for this session has finished, either
// naturally or by being stopped.
func (s Session) Ended() bool {
	return !s.EndTime.IsZero()
}

func (s Session) DurationSeconds() int {
	if !s.Ended() {
		return 0
	}
	d := int(s.EndTime.Sub(s.StartTime).Seconds())
	if d < 0 {
		return 0
	}
	return d
}

func ValidateVolumeLevel(level float64) error {
	if math.IsNaN(level) || level < 0 || level > 1 {
		return fmt.Errorf("%w: volume level %v outside [0,1]", apperrors.ErrInvalidVolume, level)
	}
	return nil
}

func ValidateComfortRating(rating int) error {
	if rating < MinComfortRating || rating > MaxComfortRating {
		return fmt.Errorf("%w: comfort rating must be between %d and %d", apperrors.ErrInvalidInput, MinComfortRating, MaxComfortRating)
	}
	return nil
}
