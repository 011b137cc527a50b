package domain

import (
	"fmt"
	"math"

	apperrors "scanmask/internal/platform/errors"
)

// ReferenceIntensityDB is the intensity at which a phase plays the base
// volume unchanged. Louder phases scale above it, up to the 1.0 ceiling.
const ReferenceIntensityDB = 120.0

type Status string

// Completion is an event, not a status: a finished run is Idle again.
const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
)

type Phase struct {
	FrequencyHz     float64
	DurationSeconds int
	IntensityDB     float64
}

type ScanPattern struct {
	TotalDurationSeconds int
	Phases               []Phase
}

type MaskingProfile struct {
	BaseVolumeScale float64
}

// State is owned by the engine. CurrentPhaseIndex and ElapsedSeconds only
// move forward while Running and are reset on stop.
type State struct {
	Status              Status
	ElapsedSeconds      int
	CurrentPhaseIndex   int
	PhaseElapsedSeconds int
}

func (p ScanPattern) Validate() error {
	if p.TotalDurationSeconds <= 0 {
		return fmt.Errorf("%w: total duration must be positive, got %d", apperrors.ErrInvalidPattern, p.TotalDurationSeconds)
	}
	if len(p.Phases) == 0 {
		return fmt.Errorf("%w: at least one phase is required", apperrors.ErrInvalidPattern)
	}
	return nil
}

func ValidateVolumeScale(scale float64) error {
	if math.IsNaN(scale) || scale < 0 || scale > 1 {
		return fmt.Errorf("%w: %.3f is outside [0,1]", apperrors.ErrInvalidVolume, scale)
	}
	return nil
}

// AppliedVolume is the level sent to the audio sink for a phase.
func AppliedVolume(baseScale float64, phase Phase) float64 {
	return math.Min(baseScale*(phase.IntensityDB/ReferenceIntensityDB), 1.0)
}

func PhaseLabel(index int, phase Phase) string {
	return fmt.Sprintf("Phase %d: %sHz", index+1, formatHz(phase.FrequencyHz))
}

func formatHz(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

// Advance moves the state forward by one tick. A phase boundary resets the
// phase clock to zero without carrying the overflow into the next phase.
func (s State) Advance(p ScanPattern) State {
	s.ElapsedSeconds++
	s.PhaseElapsedSeconds++
	if s.ElapsedSeconds > p.TotalDurationSeconds {
		s.ElapsedSeconds = p.TotalDurationSeconds
	}
	last := len(p.Phases) - 1
	for s.CurrentPhaseIndex < last && s.PhaseElapsedSeconds >= p.Phases[s.CurrentPhaseIndex].DurationSeconds {
		s.CurrentPhaseIndex++
		s.PhaseElapsedSeconds = 0
	}
	return s
}

func (s State) ProgressPercent(p ScanPattern) float64 {
	if p.TotalDurationSeconds <= 0 {
		return 0
	}
	return math.Min(100, float64(s.ElapsedSeconds)/float64(p.TotalDurationSeconds)*100)
}

func (s State) RemainingSeconds(p ScanPattern) int {
	remaining := p.TotalDurationSeconds - s.ElapsedSeconds
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s State) Done(p ScanPattern) bool {
	return s.ElapsedSeconds >= p.TotalDurationSeconds
}
