package in

import (
	"context"

	"scanmask/internal/modules/catalog/dto"
	catalogin "scanmask/internal/modules/catalog/port/in"
)

type CLIHandler struct {
	usecase catalogin.Usecase
}

func NewCLIHandler(usecase catalogin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) ListPatterns(ctx context.Context) ([]dto.PatternOutput, error) {
	return h.usecase.ListPatterns(ctx)
}

func (h CLIHandler) GetPattern(ctx context.Context, id string) (dto.PatternOutput, error) {
	return h.usecase.GetPattern(ctx, id)
}

func (h CLIHandler) CreatePattern(ctx context.Context, name string, minutes, frequency, intensity int, steps []dto.Step) (dto.PatternOutput, error) {
	return h.usecase.CreatePattern(ctx, dto.CreatePatternInput{
		Name:             name,
		DurationMinutes:  minutes,
		NoiseFrequencyHz: frequency,
		NoiseIntensityDB: intensity,
		Sequence:         steps,
	})
}

func (h CLIHandler) ListProfiles(ctx context.Context) ([]dto.ProfileOutput, error) {
	return h.usecase.ListProfiles(ctx)
}

func (h CLIHandler) GetProfile(ctx context.Context, id string) (dto.ProfileOutput, error) {
	return h.usecase.GetProfile(ctx, id)
}

func (h CLIHandler) CreateProfile(ctx context.Context, input dto.CreateProfileInput) (dto.ProfileOutput, error) {
	return h.usecase.CreateProfile(ctx, input)
}

func (h CLIHandler) Effectiveness(ctx context.Context, patternID, profileID string) (dto.EffectivenessOutput, error) {
	return h.usecase.Effectiveness(ctx, dto.EffectivenessInput{PatternID: patternID, ProfileID: profileID})
}

func (h CLIHandler) Seed(ctx context.Context) (dto.SeedOutput, error) {
	return h.usecase.SeedDefaults(ctx)
}
