package in

import (
	"context"

	"scanmask/internal/modules/catalog/dto"
)

type Usecase interface {
	ListPatterns(ctx context.Context) ([]dto.PatternOutput, error)
	GetPattern(ctx context.Context, id string) (dto.PatternOutput, error)
	CreatePattern(ctx context.Context, input dto.CreatePatternInput) (dto.PatternOutput, error)
	ListProfiles(ctx context.Context) ([]dto.ProfileOutput, error)
	GetProfile(ctx context.Context, id string) (dto.ProfileOutput, error)
	CreateProfile(ctx context.Context, input dto.CreateProfileInput) (dto.ProfileOutput, error)
	Effectiveness(ctx context.Context, input dto.EffectivenessInput) (dto.EffectivenessOutput, error)
	SeedDefaults(ctx context.Context) (dto.SeedOutput, error)
}
