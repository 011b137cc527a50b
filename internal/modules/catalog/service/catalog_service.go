package service

import (
	"context"
	"fmt"
	"strings"

	"scanmask/internal/modules/catalog/domain"
	catalogout "scanmask/internal/modules/catalog/port/out"
	"scanmask/internal/platform/clock"
	apperrors "scanmask/internal/platform/errors"
	"scanmask/internal/platform/id"
)

type CatalogService struct {
	clock    clock.Clock
	idGen    id.Generator
	patterns catalogout.PatternStore
	profiles catalogout.ProfileStore
}

func NewCatalogService(clock clock.Clock, idGen id.Generator, patterns catalogout.PatternStore, profiles catalogout.ProfileStore) *CatalogService {
	return &CatalogService{clock: clock, idGen: idGen, patterns: patterns, profiles: profiles}
}

// CreatePattern fills in the nominal noise defaults and, when no sequence is
// given, a single step spanning the whole scan.
func (s *CatalogService) CreatePattern(ctx context.Context, pattern domain.Pattern) (domain.Pattern, error) {
	pattern.ID = s.idGen.New()
	pattern.Name = strings.TrimSpace(pattern.Name)
	pattern.CreatedAt = s.clock.Now()
	if pattern.NoiseFrequencyHz == 0 {
		pattern.NoiseFrequencyHz = domain.DefaultNoiseFrequencyHz
	}
	if pattern.NoiseIntensityDB == 0 {
		pattern.NoiseIntensityDB = domain.DefaultNoiseIntensityDB
	}
	if len(pattern.Sequence) == 0 {
		pattern.Sequence = pattern.DefaultSequence()
	}
	if err := pattern.Validate(); err != nil {
		return domain.Pattern{}, err
	}
	if err := s.patterns.SavePattern(ctx, pattern); err != nil {
		return domain.Pattern{}, err
	}
	return pattern, nil
}

func (s *CatalogService) CreateProfile(ctx context.Context, profile domain.Profile) (domain.Profile, error) {
	profile.ID = s.idGen.New()
	profile.Name = strings.TrimSpace(profile.Name)
	profile.CreatedAt = s.clock.Now()
	if err := profile.Validate(); err != nil {
		return domain.Profile{}, err
	}
	if err := s.profiles.SaveProfile(ctx, profile); err != nil {
		return domain.Profile{}, err
	}
	return profile, nil
}

func (s *CatalogService) Pattern(ctx context.Context, patternID string) (domain.Pattern, error) {
	if strings.TrimSpace(patternID) == "" {
		return domain.Pattern{}, fmt.Errorf("%w: pattern id is required", apperrors.ErrInvalidInput)
	}
	return s.patterns.FindPattern(ctx, patternID)
}

func (s *CatalogService) Profile(ctx context.Context, profileID string) (domain.Profile, error) {
	if strings.TrimSpace(profileID) == "" {
		return domain.Profile{}, fmt.Errorf("%w: profile id is required", apperrors.ErrInvalidInput)
	}
	return s.profiles.FindProfile(ctx, profileID)
}

func (s *CatalogService) Assess(ctx context.Context, patternID, profileID string) (domain.Assessment, error) {
	pattern, err := s.Pattern(ctx, patternID)
	if err != nil {
		return domain.Assessment{}, err
	}
	profile, err := s.Profile(ctx, profileID)
	if err != nil {
		return domain.Assessment{}, err
	}
	return domain.Assess(pattern, profile), nil
}

// Seed stores the built-in patterns and profiles into empty stores only.
func (s *CatalogService) Seed(ctx context.Context) (int, int, error) {
	patternsAdded, profilesAdded := 0, 0
	count, err := s.patterns.CountPatterns(ctx)
	if err != nil {
		return 0, 0, err
	}
	if count == 0 {
		for _, p := range DefaultPatterns() {
			if _, err := s.CreatePattern(ctx, p); err != nil {
				return patternsAdded, profilesAdded, fmt.Errorf("seed pattern %q: %w", p.Name, err)
			}
			patternsAdded++
		}
	}
	count, err = s.profiles.CountProfiles(ctx)
	if err != nil {
		return patternsAdded, 0, err
	}
	if count == 0 {
		for _, p := range DefaultProfiles() {
			if _, err := s.CreateProfile(ctx, p); err != nil {
				return patternsAdded, profilesAdded, fmt.Errorf("seed profile %q: %w", p.Name, err)
			}
			profilesAdded++
		}
	}
	return patternsAdded, profilesAdded, nil
}
