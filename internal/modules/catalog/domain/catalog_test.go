package domain_test

import (
	"testing"

	"scanmask/internal/modules/catalog/domain"
)

func TestBandBoundaries(t *testing.T) {
	t.Parallel()
	cases := map[int]domain.Band{
		500:  domain.BandLow,
		999:  domain.BandLow,
		1000: domain.BandMid,
		2999: domain.BandMid,
		3000: domain.BandHigh,
	}
	for hz, want := range cases {
		if got := domain.BandFor(hz); got != want {
			t.Fatalf("band for %d: expected %s, got %s", hz, want, got)
		}
	}
}

func TestAssessRecommendsVolumeCappedAtOne(t *testing.T) {
	t.Parallel()
	profile := domain.Profile{Type: domain.SoundTypeWhiteNoise, Effectiveness: domain.Effectiveness{LowFreq: 0.8, MidFreq: 0.9, HighFreq: 0.7}}
	got := domain.Assess(domain.Pattern{NoiseFrequencyHz: 2000}, profile)
	if got.Score != 0.9 || got.Band != domain.BandMid || got.RecommendedVolume != 1.0 {
		t.Fatalf("unexpected assessment: %+v", got)
	}
	got = domain.Assess(domain.Pattern{NoiseFrequencyHz: 3500}, profile)
	if got.Score != 0.7 || got.RecommendedVolume < 0.8999 || got.RecommendedVolume > 0.9001 {
		t.Fatalf("unexpected high band assessment: %+v", got)
	}
}

func TestPatternValidateAndDefaultSequence(t *testing.T) {
	t.Parallel()
	p := domain.Pattern{ID: "p1", Name: "Brain", DurationMinutes: 2, NoiseFrequencyHz: 2000, NoiseIntensityDB: 120}
	if err := p.Validate(); err == nil {
		t.Fatalf("pattern without sequence must fail")
	}
	p.Sequence = p.DefaultSequence()
	if err := p.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if p.Sequence[0].Duration != 120 || p.TotalSeconds() != 120 {
		t.Fatalf("expected single 120s step, got %+v", p.Sequence)
	}
	p.Sequence = append(p.Sequence, domain.Step{Frequency: 1800, Duration: 0, Intensity: 100})
	if err := p.Validate(); err == nil {
		t.Fatalf("zero-length step must fail")
	}
}

func TestProfileValidate(t *testing.T) {
	t.Parallel()
	p := domain.Profile{ID: "s1", Name: "Rain", Type: "static", Effectiveness: domain.Effectiveness{LowFreq: 0.5}}
	if err := p.Validate(); err == nil {
		t.Fatalf("unknown sound type must fail")
	}
	p.Type = domain.SoundTypeNature
	if err := p.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	p.Effectiveness.HighFreq = 1.2
	if err := p.Validate(); err == nil {
		t.Fatalf("effectiveness above 1 must fail")
	}
}
