package out

import (
	"errors"

	"scanmask/internal/modules/timeline/dto"
	timelineout "scanmask/internal/modules/timeline/port/out"
)

// MultiSink forwards every command to all sinks. An empty MultiSink is a
// silent sink.
type MultiSink []timelineout.AudioSink

func NewMultiSink(sinks ...timelineout.AudioSink) MultiSink {
	return MultiSink(sinks)
}

func (m MultiSink) Play(track dto.Track) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Play(track))
	}
	return errors.Join(errs...)
}

func (m MultiSink) SetVolume(level float64) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.SetVolume(level))
	}
	return errors.Join(errs...)
}

func (m MultiSink) Stop() error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Stop())
	}
	return errors.Join(errs...)
}
