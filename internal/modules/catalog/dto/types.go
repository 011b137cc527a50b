package dto

import "time"

type Step struct {
	Frequency int
	Duration  int
	Intensity int
}

type CreatePatternInput struct {
	Name             string
	DurationMinutes  int
	NoiseFrequencyHz int
	NoiseIntensityDB int
	Sequence         []Step
}

type PatternOutput struct {
	ID               string
	Name             string
	DurationMinutes  int
	NoiseFrequencyHz int
	NoiseIntensityDB int
	Sequence         []Step
	CreatedAt        time.Time
}

type CreateProfileInput struct {
	Name            string
	Type            string
	BaseFrequencyHz int
	LowFreq         float64
	MidFreq         float64
	HighFreq        float64
	FilePath        string
}

type ProfileOutput struct {
	ID              string
	Name            string
	Type            string
	BaseFrequencyHz int
	LowFreq         float64
	MidFreq         float64
	HighFreq        float64
	FilePath        string
	CreatedAt       time.Time
}

type EffectivenessInput struct {
	PatternID string
	ProfileID string
}

type EffectivenessOutput struct {
	EffectivenessScore float64
	Band               string
	PatternFrequency   int
	SoundType          string
	RecommendedVolume  float64
}

type SeedOutput struct {
	PatternsAdded int
	ProfilesAdded int
}
