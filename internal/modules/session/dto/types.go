package dto

import (
	"time"

	timelinedto "scanmask/internal/modules/timeline/dto"
)

type CreateInput struct {
	PatternID   string
	ProfileID   string
	VolumeLevel float64
}

// CompleteInput closes a session. ComfortRating is optional.
type CompleteInput struct {
	SessionID     string
	ComfortRating *int
}

type SessionOutput struct {
	ID              string
	PatternID       string
	PatternName     string
	ProfileID       string
	ProfileName     string
	StartTime       time.Time
	EndTime         time.Time
	DurationSeconds int
	ComfortRating   *int
	VolumeLevel     float64
	Completed       bool
	Outcome         string
	NotePath        string
}

type ActiveSessionOutput struct {
	SessionID   string
	PatternID   string
	PatternName string
	ProfileID   string
	ProfileName string
	StartedAt   time.Time
}

// RunInput starts a live session. When UseRecommended is set the volume is
// taken from the catalog's effectiveness assessment instead of VolumeLevel.
// With neither, the engine's current base scale is used. OnEvent, if set,
// sees every timeline event of this run on the caller's goroutine of Run.
type RunInput struct {
	PatternID      string
	ProfileID      string
	VolumeLevel    *float64
	UseRecommended bool
	OnEvent        func(timelinedto.Event)
}

type RunOutput struct {
	Session      SessionOutput
	Run          uint64
	LastProgress timelinedto.Progress
}

type NoteOutput struct {
	Path string
	Body string
}
