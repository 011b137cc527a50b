package dto

type Phase struct {
	FrequencyHz     float64 `json:"frequency_hz"`
	DurationSeconds int     `json:"duration_seconds"`
	IntensityDB     float64 `json:"intensity_db"`
}

// Track describes the masking sound the audio sink should load on play.
type Track struct {
	Name            string
	SoundType       string
	BaseFrequencyHz float64
	FilePath        string
}

// StartInput describes one run. A nil BaseVolumeScale keeps the scale
// stored by the engine, including one set while it was idle.
type StartInput struct {
	TotalDurationSeconds int
	Phases               []Phase
	BaseVolumeScale      *float64
	Track                Track
}

// Scale returns a pointer for StartInput.BaseVolumeScale.
func Scale(v float64) *float64 {
	return &v
}

type EventKind string

const (
	EventProgress  EventKind = "progress"
	EventStopped   EventKind = "stopped"
	EventCompleted EventKind = "completed"
	// EventSnapshot is sent to a new subscriber of a remote stream.
	EventSnapshot EventKind = "snapshot"
)

// Progress is emitted once per tick, once on start and once, with zero
// progress, when a run stops.
type Progress struct {
	ProgressPercent  float64 `json:"progress_percent"`
	RemainingSeconds int     `json:"remaining_seconds"`
	ElapsedSeconds   int     `json:"elapsed_seconds"`
	PhaseIndex       int     `json:"phase_index"`
	PhaseLabel       string  `json:"phase_label"`
	AppliedVolume    float64 `json:"applied_volume"`
}

type Completion struct {
	TotalDurationSeconds int `json:"total_duration_seconds"`
	PhasesVisited        int `json:"phases_visited"`
}

type Event struct {
	Kind       EventKind   `json:"kind"`
	Run        uint64      `json:"run"`
	Progress   Progress    `json:"progress"`
	Completion *Completion `json:"completion,omitempty"`
}

type StateOutput struct {
	Status               string  `json:"status"`
	Run                  uint64  `json:"run"`
	ElapsedSeconds       int     `json:"elapsed_seconds"`
	CurrentPhaseIndex    int     `json:"current_phase_index"`
	PhaseElapsedSeconds  int     `json:"phase_elapsed_seconds"`
	TotalDurationSeconds int     `json:"total_duration_seconds"`
	PhaseCount           int     `json:"phase_count"`
	BaseVolumeScale      float64 `json:"base_volume_scale"`
	AppliedVolume        float64 `json:"applied_volume"`
	ProgressPercent      float64 `json:"progress_percent"`
	RemainingSeconds     int     `json:"remaining_seconds"`
	PhaseLabel           string  `json:"phase_label"`
}
