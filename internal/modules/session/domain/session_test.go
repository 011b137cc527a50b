package domain

import (
	"errors"
	"math"
	"testing"
	"time"

	apperrors "scanmask/internal/platform/errors"
)

func TestDurationSecondsOnlyCountsEndedSessions(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	s := Session{StartTime: start}
	if s.Ended() || s.DurationSeconds() != 0 {
		t.Fatalf("open session should have no duration")
	}
	s.EndTime = start.Add(90 * time.Second)
	if got := s.DurationSeconds(); got != 90 {
		t.Fatalf("duration = %d, want 90", got)
	}
	s.EndTime = start.Add(-time.Second)
	if got := s.DurationSeconds(); got != 0 {
		t.Fatalf("negative duration should clamp to 0, got %d", got)
	}
}

func TestValidation(t *testing.T) {
	t.Parallel()
	for _, v := range []float64{-0.1, 1.01, math.NaN()} {
		if err := ValidateVolumeLevel(v); !errors.Is(err, apperrors.ErrInvalidVolume) {
			t.Fatalf("ValidateVolumeLevel(%v) = %v", v, err)
		}
	}
	if err := ValidateVolumeLevel(0); err != nil {
		t.Fatalf("0 should be valid: %v", err)
	}
	for _, r := range []int{0, 11} {
		if err := ValidateComfortRating(r); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("ValidateComfortRating(%d) = %v", r, err)
		}
	}
	if err := ValidateComfortRating(10); err != nil {
		t.Fatalf("10 should be valid: %v", err)
	}
}
