package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"testing"
	"time"

	"scanmask/internal/modules/catalog/domain"
	"scanmask/internal/modules/catalog/dto"
	catalogin "scanmask/internal/modules/catalog/port/in"
	"scanmask/internal/modules/catalog/service"
	"scanmask/internal/modules/catalog/usecase"
	apperrors "scanmask/internal/platform/errors"
)

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

type seqID struct{ n int }

func (s *seqID) New() string {
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

type memStore struct {
	patterns map[string]domain.Pattern
	profiles map[string]domain.Profile
}

func newMemStore() *memStore {
	return &memStore{patterns: map[string]domain.Pattern{}, profiles: map[string]domain.Profile{}}
}

func (m *memStore) SavePattern(_ context.Context, p domain.Pattern) error {
	m.patterns[p.ID] = p
	return nil
}

func (m *memStore) FindPattern(_ context.Context, id string) (domain.Pattern, error) {
	p, ok := m.patterns[id]
	if !ok {
		return domain.Pattern{}, apperrors.ErrNotFound
	}
	return p, nil
}

func (m *memStore) ListPatterns(context.Context) ([]domain.Pattern, error) {
	out := make([]domain.Pattern, 0, len(m.patterns))
	for _, p := range m.patterns {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) CountPatterns(context.Context) (int, error) { return len(m.patterns), nil }

func (m *memStore) SaveProfile(_ context.Context, p domain.Profile) error {
	m.profiles[p.ID] = p
	return nil
}

func (m *memStore) FindProfile(_ context.Context, id string) (domain.Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return domain.Profile{}, apperrors.ErrNotFound
	}
	return p, nil
}

func (m *memStore) ListProfiles(context.Context) ([]domain.Profile, error) {
	out := make([]domain.Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) CountProfiles(context.Context) (int, error) { return len(m.profiles), nil }

func build() (*memStore, catalogin.Usecase) {
	store := newMemStore()
	svc := service.NewCatalogService(fixedClock{at: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}, &seqID{}, store, store)
	return store, usecase.NewInteractor(svc, store, store)
}

func TestSeedDefaultsOnlyFillsEmptyStores(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	_, uc := build()

	out, err := uc.SeedDefaults(ctx)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if out.PatternsAdded != 3 || out.ProfilesAdded != 5 {
		t.Fatalf("unexpected seed counts: %+v", out)
	}
	again, err := uc.SeedDefaults(ctx)
	if err != nil {
		t.Fatalf("reseed: %v", err)
	}
	if again.PatternsAdded != 0 || again.ProfilesAdded != 0 {
		t.Fatalf("reseed should add nothing: %+v", again)
	}
	patterns, err := uc.ListPatterns(ctx)
	if err != nil {
		t.Fatalf("list patterns: %v", err)
	}
	if len(patterns) != 3 {
		t.Fatalf("patterns = %d, want 3", len(patterns))
	}
}

func TestCreatePatternWithoutSequenceSpansWholeScan(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, uc := build()

	out, err := uc.CreatePattern(ctx, dto.CreatePatternInput{Name: "  Quick Scan ", DurationMinutes: 5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if out.Name != "Quick Scan" || out.NoiseFrequencyHz != domain.DefaultNoiseFrequencyHz || out.NoiseIntensityDB != domain.DefaultNoiseIntensityDB {
		t.Fatalf("unexpected defaults: %+v", out)
	}
	if len(out.Sequence) != 1 || out.Sequence[0].Duration != 300 || out.Sequence[0].Frequency != 2000 {
		t.Fatalf("unexpected sequence: %+v", out.Sequence)
	}
	if _, ok := store.patterns[out.ID]; !ok {
		t.Fatalf("pattern %s not stored", out.ID)
	}

	got, err := uc.GetPattern(ctx, out.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != out.ID {
		t.Fatalf("got %s, want %s", got.ID, out.ID)
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	_, uc := build()

	cases := []dto.CreatePatternInput{
		{Name: "", DurationMinutes: 5},
		{Name: "x", DurationMinutes: 0},
		{Name: "x", DurationMinutes: 5, Sequence: []dto.Step{{Frequency: 1000, Duration: 0, Intensity: 100}}},
	}
	for _, in := range cases {
		if _, err := uc.CreatePattern(ctx, in); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("CreatePattern(%+v) err = %v, want invalid input", in, err)
		}
	}
	if _, err := uc.CreateProfile(ctx, dto.CreateProfileInput{Name: "Drums", Type: "percussion"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid sound type, got %v", err)
	}
	if _, err := uc.CreateProfile(ctx, dto.CreateProfileInput{Name: "Loud", Type: "ambient", MidFreq: 1.5}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid effectiveness, got %v", err)
	}
	if _, err := uc.GetPattern(ctx, " "); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid id, got %v", err)
	}
	if _, err := uc.GetProfile(ctx, "nope"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestEffectivenessUsesPatternBand(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	_, uc := build()

	pattern, err := uc.CreatePattern(ctx, dto.CreatePatternInput{Name: "Knee", DurationMinutes: 10, NoiseFrequencyHz: 3200})
	if err != nil {
		t.Fatalf("create pattern: %v", err)
	}
	profile, err := uc.CreateProfile(ctx, dto.CreateProfileInput{
		Name: "Rain", Type: "nature", BaseFrequencyHz: 800, LowFreq: 0.7, MidFreq: 0.9, HighFreq: 0.85,
	})
	if err != nil {
		t.Fatalf("create profile: %v", err)
	}

	out, err := uc.Effectiveness(ctx, dto.EffectivenessInput{PatternID: pattern.ID, ProfileID: profile.ID})
	if err != nil {
		t.Fatalf("effectiveness: %v", err)
	}
	if out.Band != "high_freq" || out.EffectivenessScore != 0.85 || out.PatternFrequency != 3200 || out.SoundType != "nature" {
		t.Fatalf("unexpected assessment: %+v", out)
	}
	if math.Abs(out.RecommendedVolume-1.0) > 1e-9 {
		t.Fatalf("recommended = %v, want capped at 1", out.RecommendedVolume)
	}

	if _, err := uc.Effectiveness(ctx, dto.EffectivenessInput{PatternID: "missing", ProfileID: profile.ID}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
