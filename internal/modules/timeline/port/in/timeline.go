package in

import "scanmask/internal/modules/timeline/dto"

type Engine interface {
	Start(input dto.StartInput) error
	Stop()
	SetVolumeScale(scale float64) error
	State() dto.StateOutput
}

// Events lets callers observe engine events without becoming the engine's sink.
type Events interface {
	Subscribe(buffer int) (<-chan dto.Event, func())
}
