package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	catalogdto "scanmask/internal/modules/catalog/dto"
)

func newPatternsCmd(dataDir *string) *cobra.Command {
	patterns := &cobra.Command{Use: "patterns", Short: "Scan pattern catalog"}

	patterns.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List scan patterns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.Background()
			app, err := loadApp(ctx, *dataDir)
			if err != nil {
				return err
			}
			defer app.Close()
			list, err := app.CatalogCLI.ListPatterns(ctx)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no patterns")
				return nil
			}
			for _, p := range list {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%dmin\t%dHz\t%ddB\t%d steps\n",
					p.ID, p.Name, p.DurationMinutes, p.NoiseFrequencyHz, p.NoiseIntensityDB, len(p.Sequence))
			}
			return nil
		},
	})

	patterns.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show a scan pattern and its sequence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := loadApp(ctx, *dataDir)
			if err != nil {
				return err
			}
			defer app.Close()
			p, err := app.CatalogCLI.GetPattern(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s (%s)\nduration: %d min\nnoise: %d Hz @ %d dB\n", p.Name, p.ID, p.DurationMinutes, p.NoiseFrequencyHz, p.NoiseIntensityDB)
			for i, s := range p.Sequence {
				_, _ = fmt.Fprintf(out, "  %d. %d Hz  %ds  %d dB\n", i+1, s.Frequency, s.Duration, s.Intensity)
			}
			return nil
		},
	})

	var name string
	var minutes, frequency, intensity int
	var steps []string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a scan pattern",
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := parseSteps(steps)
			if err != nil {
				return err
			}
			ctx := context.Background()
			app, err := loadApp(ctx, *dataDir)
			if err != nil {
				return err
			}
			defer app.Close()
			p, err := app.CatalogCLI.CreatePattern(ctx, name, minutes, frequency, intensity, parsed)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created pattern %s (%s) with %d steps\n", p.Name, p.ID, len(p.Sequence))
			return nil
		},
	}
	createCmd.Flags().StringVar(&name, "name", "", "pattern name")
	createCmd.Flags().IntVar(&minutes, "minutes", 0, "scan duration in minutes")
	createCmd.Flags().IntVar(&frequency, "frequency", 0, "nominal noise frequency in Hz (default 2000)")
	createCmd.Flags().IntVar(&intensity, "intensity", 0, "nominal noise intensity in dB (default 120)")
	createCmd.Flags().StringArrayVar(&steps, "step", nil, "sequence step as frequency:seconds:intensity (repeatable)")
	patterns.AddCommand(createCmd)
	return patterns
}

// parseSteps reads frequency:seconds:intensity triples.
func parseSteps(raw []string) ([]catalogdto.Step, error) {
	steps := make([]catalogdto.Step, 0, len(raw))
	for _, r := range raw {
		parts := strings.Split(r, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("--step %q: want frequency:seconds:intensity", r)
		}
		var nums [3]int
		for i, part := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return nil, fmt.Errorf("--step %q: %w", r, err)
			}
			nums[i] = n
		}
		steps = append(steps, catalogdto.Step{Frequency: nums[0], Duration: nums[1], Intensity: nums[2]})
	}
	return steps, nil
}

func newProfilesCmd(dataDir *string) *cobra.Command {
	profiles := &cobra.Command{Use: "profiles", Short: "Masking sound profiles"}

	profiles.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List masking profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.Background()
			app, err := loadApp(ctx, *dataDir)
			if err != nil {
				return err
			}
			defer app.Close()
			list, err := app.CatalogCLI.ListProfiles(ctx)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no profiles")
				return nil
			}
			for _, p := range list {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%dHz\tlow=%.2f mid=%.2f high=%.2f\n",
					p.ID, p.Name, p.Type, p.BaseFrequencyHz, p.LowFreq, p.MidFreq, p.HighFreq)
			}
			return nil
		},
	})

	profiles.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show a masking profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := loadApp(ctx, *dataDir)
			if err != nil {
				return err
			}
			defer app.Close()
			p, err := app.CatalogCLI.GetProfile(ctx, args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\ntype: %s\nbase frequency: %d Hz\nfile: %s\neffectiveness: low=%.2f mid=%.2f high=%.2f\n",
				p.Name, p.ID, p.Type, p.BaseFrequencyHz, p.FilePath, p.LowFreq, p.MidFreq, p.HighFreq)
			return nil
		},
	})

	var input catalogdto.CreateProfileInput
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a masking profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.Background()
			app, err := loadApp(ctx, *dataDir)
			if err != nil {
				return err
			}
			defer app.Close()
			p, err := app.CatalogCLI.CreateProfile(ctx, input)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created profile %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}
	createCmd.Flags().StringVar(&input.Name, "name", "", "profile name")
	createCmd.Flags().StringVar(&input.Type, "type", "nature", "sound type: nature|white_noise|ambient|music")
	createCmd.Flags().IntVar(&input.BaseFrequencyHz, "base-frequency", 0, "base frequency in Hz")
	createCmd.Flags().Float64Var(&input.LowFreq, "low", 0, "effectiveness against low frequency noise [0,1]")
	createCmd.Flags().Float64Var(&input.MidFreq, "mid", 0, "effectiveness against mid frequency noise [0,1]")
	createCmd.Flags().Float64Var(&input.HighFreq, "high", 0, "effectiveness against high frequency noise [0,1]")
	createCmd.Flags().StringVar(&input.FilePath, "file", "", "sound file, relative to sound_dir")
	profiles.AddCommand(createCmd)
	return profiles
}

func newEffectivenessCmd(dataDir *string) *cobra.Command {
	var patternID, profileID string
	cmd := &cobra.Command{
		Use:   "effectiveness",
		Short: "Score how well a profile masks a pattern's noise",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if patternID == "" || profileID == "" {
				return fmt.Errorf("--pattern and --profile are required")
			}
			ctx := context.Background()
			app, err := loadApp(ctx, *dataDir)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.CatalogCLI.Effectiveness(ctx, patternID, profileID)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "score=%.2f band=%s frequency=%dHz type=%s recommended_volume=%.2f\n",
				out.EffectivenessScore, out.Band, out.PatternFrequency, out.SoundType, out.RecommendedVolume)
			return nil
		},
	}
	cmd.Flags().StringVar(&patternID, "pattern", "", "scan pattern id")
	cmd.Flags().StringVar(&profileID, "profile", "", "masking profile id")
	return cmd
}
