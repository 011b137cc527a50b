package service

import "scanmask/internal/modules/catalog/domain"

func DefaultPatterns() []domain.Pattern {
	return []domain.Pattern{
		{
			Name: "Brain T1 Weighted", DurationMinutes: 15, NoiseFrequencyHz: 2000, NoiseIntensityDB: 120,
			Sequence: []domain.Step{
				{Frequency: 2000, Duration: 300, Intensity: 120},
				{Frequency: 1800, Duration: 180, Intensity: 115},
				{Frequency: 2200, Duration: 420, Intensity: 125},
			},
		},
		{
			Name: "Spine MRI", DurationMinutes: 25, NoiseFrequencyHz: 1500, NoiseIntensityDB: 118,
			Sequence: []domain.Step{
				{Frequency: 1500, Duration: 600, Intensity: 118},
				{Frequency: 1700, Duration: 300, Intensity: 120},
				{Frequency: 1400, Duration: 600, Intensity: 115},
			},
		},
		{
			Name: "Knee Joint", DurationMinutes: 10, NoiseFrequencyHz: 2500, NoiseIntensityDB: 122,
			Sequence: []domain.Step{
				{Frequency: 2500, Duration: 200, Intensity: 122},
				{Frequency: 2300, Duration: 150, Intensity: 118},
				{Frequency: 2700, Duration: 250, Intensity: 125},
			},
		},
	}
}

func DefaultProfiles() []domain.Profile {
	return []domain.Profile{
		{Name: "Ocean Waves", Type: domain.SoundTypeNature, BaseFrequencyHz: 500,
			Effectiveness: domain.Effectiveness{LowFreq: 0.9, MidFreq: 0.8, HighFreq: 0.6}, FilePath: "ocean_waves.mp3"},
		{Name: "Forest Rain", Type: domain.SoundTypeNature, BaseFrequencyHz: 800,
			Effectiveness: domain.Effectiveness{LowFreq: 0.7, MidFreq: 0.9, HighFreq: 0.8}, FilePath: "forest_rain.mp3"},
		{Name: "White Noise", Type: domain.SoundTypeWhiteNoise, BaseFrequencyHz: 1000,
			Effectiveness: domain.Effectiveness{LowFreq: 0.8, MidFreq: 0.9, HighFreq: 0.9}, FilePath: "white_noise.mp3"},
		{Name: "Pink Noise", Type: domain.SoundTypeWhiteNoise, BaseFrequencyHz: 750,
			Effectiveness: domain.Effectiveness{LowFreq: 0.9, MidFreq: 0.8, HighFreq: 0.7}, FilePath: "pink_noise.mp3"},
		{Name: "Ambient Meditation", Type: domain.SoundTypeAmbient, BaseFrequencyHz: 400,
			Effectiveness: domain.Effectiveness{LowFreq: 0.8, MidFreq: 0.7, HighFreq: 0.5}, FilePath: "ambient_meditation.mp3"},
	}
}
