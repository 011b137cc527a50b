package usecase

import (
	"context"

	"scanmask/internal/modules/catalog/domain"
	"scanmask/internal/modules/catalog/dto"
	catalogin "scanmask/internal/modules/catalog/port/in"
	catalogout "scanmask/internal/modules/catalog/port/out"
	"scanmask/internal/modules/catalog/service"
)

type Interactor struct {
	svc      *service.CatalogService
	patterns catalogout.PatternStore
	profiles catalogout.ProfileStore
}

func NewInteractor(svc *service.CatalogService, patterns catalogout.PatternStore, profiles catalogout.ProfileStore) catalogin.Usecase {
	return &Interactor{svc: svc, patterns: patterns, profiles: profiles}
}

func (i *Interactor) ListPatterns(ctx context.Context) ([]dto.PatternOutput, error) {
	patterns, err := i.patterns.ListPatterns(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PatternOutput, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, toPatternOutput(p))
	}
	return out, nil
}

func (i *Interactor) GetPattern(ctx context.Context, id string) (dto.PatternOutput, error) {
	p, err := i.svc.Pattern(ctx, id)
	if err != nil {
		return dto.PatternOutput{}, err
	}
	return toPatternOutput(p), nil
}

func (i *Interactor) CreatePattern(ctx context.Context, input dto.CreatePatternInput) (dto.PatternOutput, error) {
	steps := make([]domain.Step, 0, len(input.Sequence))
	for _, s := range input.Sequence {
		steps = append(steps, domain.Step{Frequency: s.Frequency, Duration: s.Duration, Intensity: s.Intensity})
	}
	p, err := i.svc.CreatePattern(ctx, domain.Pattern{
		Name:             input.Name,
		DurationMinutes:  input.DurationMinutes,
		NoiseFrequencyHz: input.NoiseFrequencyHz,
		NoiseIntensityDB: input.NoiseIntensityDB,
		Sequence:         steps,
	})
	if err != nil {
		return dto.PatternOutput{}, err
	}
	return toPatternOutput(p), nil
}

func (i *Interactor) ListProfiles(ctx context.Context) ([]dto.ProfileOutput, error) {
	profiles, err := i.profiles.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProfileOutput, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, toProfileOutput(p))
	}
	return out, nil
}

func (i *Interactor) GetProfile(ctx context.Context, id string) (dto.ProfileOutput, error) {
	p, err := i.svc.Profile(ctx, id)
	if err != nil {
		return dto.ProfileOutput{}, err
	}
	return toProfileOutput(p), nil
}

func (i *Interactor) CreateProfile(ctx context.Context, input dto.CreateProfileInput) (dto.ProfileOutput, error) {
	p, err := i.svc.CreateProfile(ctx, domain.Profile{
		Name:            input.Name,
		Type:            domain.SoundType(input.Type),
		BaseFrequencyHz: input.BaseFrequencyHz,
		Effectiveness:   domain.Effectiveness{LowFreq: input.LowFreq, MidFreq: input.MidFreq, HighFreq: input.HighFreq},
		FilePath:        input.FilePath,
	})
	if err != nil {
		return dto.ProfileOutput{}, err
	}
	return toProfileOutput(p), nil
}

func (i *Interactor) Effectiveness(ctx context.Context, input dto.EffectivenessInput) (dto.EffectivenessOutput, error) {
	a, err := i.svc.Assess(ctx, input.PatternID, input.ProfileID)
	if err != nil {
		return dto.EffectivenessOutput{}, err
	}
	return dto.EffectivenessOutput{
		EffectivenessScore: a.Score,
		Band:               string(a.Band),
		PatternFrequency:   a.PatternFrequency,
		SoundType:          string(a.SoundType),
		RecommendedVolume:  a.RecommendedVolume,
	}, nil
}

func (i *Interactor) SeedDefaults(ctx context.Context) (dto.SeedOutput, error) {
	patterns, profiles, err := i.svc.Seed(ctx)
	if err != nil {
		return dto.SeedOutput{}, err
	}
	return dto.SeedOutput{PatternsAdded: patterns, ProfilesAdded: profiles}, nil
}

func toPatternOutput(p domain.Pattern) dto.PatternOutput {
	steps := make([]dto.Step, 0, len(p.Sequence))
	for _, s := range p.Sequence {
		steps = append(steps, dto.Step{Frequency: s.Frequency, Duration: s.Duration, Intensity: s.Intensity})
	}
	return dto.PatternOutput{
		ID:               p.ID,
		Name:             p.Name,
		DurationMinutes:  p.DurationMinutes,
		NoiseFrequencyHz: p.NoiseFrequencyHz,
		NoiseIntensityDB: p.NoiseIntensityDB,
		Sequence:         steps,
		CreatedAt:        p.CreatedAt,
	}
}

func toProfileOutput(p domain.Profile) dto.ProfileOutput {
	return dto.ProfileOutput{
		ID:              p.ID,
		Name:            p.Name,
		Type:            string(p.Type),
		BaseFrequencyHz: p.BaseFrequencyHz,
		LowFreq:         p.Effectiveness.LowFreq,
		MidFreq:         p.Effectiveness.MidFreq,
		HighFreq:        p.Effectiveness.HighFreq,
		FilePath:        p.FilePath,
		CreatedAt:       p.CreatedAt,
	}
}
