package out

import (
	"context"

	"scanmask/internal/modules/catalog/domain"
)

type PatternStore interface {
	SavePattern(ctx context.Context, pattern domain.Pattern) error
	FindPattern(ctx context.Context, id string) (domain.Pattern, error)
	ListPatterns(ctx context.Context) ([]domain.Pattern, error)
	CountPatterns(ctx context.Context) (int, error)
}

type ProfileStore interface {
	SaveProfile(ctx context.Context, profile domain.Profile) error
	FindProfile(ctx context.Context, id string) (domain.Profile, error)
	ListProfiles(ctx context.Context) ([]domain.Profile, error)
	CountProfiles(ctx context.Context) (int, error)
}
