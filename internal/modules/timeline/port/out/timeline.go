package out

import (
	"time"

	"scanmask/internal/modules/timeline/dto"
)

// AudioSink receives fire-and-forget playback commands. Errors are logged by
// the engine and never stop the timeline.
type AudioSink interface {
	Play(track dto.Track) error
	SetVolume(level float64) error
	Stop() error
}

// ProgressSink is called with the engine lock held and must not call back
// into the engine.
type ProgressSink interface {
	Publish(event dto.Event)
}

// Scheduler invokes fn once per interval until cancel is called.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (cancel func())
}
