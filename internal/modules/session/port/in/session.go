package in

import (
	"context"

	"scanmask/internal/modules/session/dto"
)

type Usecase interface {
	Create(ctx context.Context, input dto.CreateInput) (dto.SessionOutput, error)
	Complete(ctx context.Context, input dto.CompleteInput) (dto.SessionOutput, error)
	Get(ctx context.Context, id string) (dto.SessionOutput, error)
	List(ctx context.Context) ([]dto.SessionOutput, error)
	GetActive(ctx context.Context) (dto.ActiveSessionOutput, error)
	Note(ctx context.Context, id string) (dto.NoteOutput, error)
	// Run blocks until the session's timeline completes or ctx is done.
	Run(ctx context.Context, input dto.RunInput) (dto.RunOutput, error)
}
