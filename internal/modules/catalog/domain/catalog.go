package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	apperrors "scanmask/internal/platform/errors"
)

type SoundType string

const (
	SoundTypeNature     SoundType = "nature"
	SoundTypeWhiteNoise SoundType = "white_noise"
	SoundTypeAmbient    SoundType = "ambient"
	SoundTypeMusic      SoundType = "music"
)

const (
	DefaultNoiseFrequencyHz = 2000
	DefaultNoiseIntensityDB = 120

	lowBandCeilingHz = 1000
	midBandCeilingHz = 3000
)

type Band string

const (
	BandLow  Band = "low_freq"
	BandMid  Band = "mid_freq"
	BandHigh Band = "high_freq"
)

type Step struct {
	Frequency int `json:"frequency"`
	Duration  int `json:"duration"`
	Intensity int `json:"intensity"`
}

type Pattern struct {
	ID               string
	Name             string
	DurationMinutes  int
	NoiseFrequencyHz int
	NoiseIntensityDB int
	Sequence         []Step
	CreatedAt        time.Time
}

type Effectiveness struct {
	LowFreq  float64 `json:"low_freq"`
	MidFreq  float64 `json:"mid_freq"`
	HighFreq float64 `json:"high_freq"`
}

type Profile struct {
	ID              string
	Name            string
	Type            SoundType
	BaseFrequencyHz int
	Effectiveness   Effectiveness
	FilePath        string
	CreatedAt       time.Time
}

type Assessment struct {
	Score             float64
	Band              Band
	PatternFrequency  int
	SoundType         SoundType
	RecommendedVolume float64
}

func (t SoundType) Validate() error {
	switch t {
	case SoundTypeNature, SoundTypeWhiteNoise, SoundTypeAmbient, SoundTypeMusic:
		return nil
	default:
		return fmt.Errorf("%w: unsupported sound type %q", apperrors.ErrInvalidInput, string(t))
	}
}

// TotalSeconds is the scan length the timeline runs for.
func (p Pattern) TotalSeconds() int {
	return p.DurationMinutes * 60
}

// DefaultSequence covers the whole scan with the pattern's nominal noise.
func (p Pattern) DefaultSequence() []Step {
	return []Step{{Frequency: p.NoiseFrequencyHz, Duration: p.TotalSeconds(), Intensity: p.NoiseIntensityDB}}
}

func (p Pattern) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: id is required", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", apperrors.ErrInvalidInput)
	}
	if p.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration_minutes must be positive", apperrors.ErrInvalidInput)
	}
	if len(p.Sequence) == 0 {
		return fmt.Errorf("%w: sequence must not be empty", apperrors.ErrInvalidInput)
	}
	for i, s := range p.Sequence {
		if s.Duration <= 0 {
			return fmt.Errorf("%w: step %d duration must be positive", apperrors.ErrInvalidInput, i+1)
		}
		if s.Frequency <= 0 {
			return fmt.Errorf("%w: step %d frequency must be positive", apperrors.ErrInvalidInput, i+1)
		}
	}
	return nil
}

func (p Profile) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: id is required", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", apperrors.ErrInvalidInput)
	}
	if err := p.Type.Validate(); err != nil {
		return err
	}
	for band, v := range map[Band]float64{BandLow: p.Effectiveness.LowFreq, BandMid: p.Effectiveness.MidFreq, BandHigh: p.Effectiveness.HighFreq} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %s effectiveness must be within [0,1]", apperrors.ErrInvalidInput, band)
		}
	}
	return nil
}

func BandFor(frequencyHz int) Band {
	switch {
	case frequencyHz < lowBandCeilingHz:
		return BandLow
	case frequencyHz < midBandCeilingHz:
		return BandMid
	default:
		return BandHigh
	}
}

func (e Effectiveness) For(band Band) float64 {
	switch band {
	case BandLow:
		return e.LowFreq
	case BandMid:
		return e.MidFreq
	default:
		return e.HighFreq
	}
}

// Assess scores how well profile masks the pattern's nominal noise and
// suggests a starting volume slightly above the score.
func Assess(pattern Pattern, profile Profile) Assessment {
	band := BandFor(pattern.NoiseFrequencyHz)
	score := profile.Effectiveness.For(band)
	return Assessment{
		Score:             score,
		Band:              band,
		PatternFrequency:  pattern.NoiseFrequencyHz,
		SoundType:         profile.Type,
		RecommendedVolume: math.Min(1.0, score+0.2),
	}
}
