package in

import (
	"context"

	sessiondto "scanmask/internal/modules/session/dto"
	sessionin "scanmask/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Create(ctx context.Context, patternID, profileID string, volume float64) (sessiondto.SessionOutput, error) {
	return h.usecase.Create(ctx, sessiondto.CreateInput{PatternID: patternID, ProfileID: profileID, VolumeLevel: volume})
}

func (h CLIHandler) Complete(ctx context.Context, sessionID string, rating *int) (sessiondto.SessionOutput, error) {
	return h.usecase.Complete(ctx, sessiondto.CompleteInput{SessionID: sessionID, ComfortRating: rating})
}

func (h CLIHandler) Get(ctx context.Context, sessionID string) (sessiondto.SessionOutput, error) {
	return h.usecase.Get(ctx, sessionID)
}

func (h CLIHandler) List(ctx context.Context) ([]sessiondto.SessionOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) GetActive(ctx context.Context) (sessiondto.ActiveSessionOutput, error) {
	return h.usecase.GetActive(ctx)
}

func (h CLIHandler) Note(ctx context.Context, sessionID string) (sessiondto.NoteOutput, error) {
	return h.usecase.Note(ctx, sessionID)
}

func (h CLIHandler) Run(ctx context.Context, input sessiondto.RunInput) (sessiondto.RunOutput, error) {
	return h.usecase.Run(ctx, input)
}
