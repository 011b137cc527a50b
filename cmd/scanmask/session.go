package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"scanmask/internal/bootstrap"
	sessiondto "scanmask/internal/modules/session/dto"
	timelinedto "scanmask/internal/modules/timeline/dto"
)

func newSessionCmd(dataDir *string) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Masking session lifecycle"}
	session.AddCommand(newSessionRunCmd(dataDir))

	var createPattern, createProfile string
	var createVolume float64
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Record a session without playing it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if createPattern == "" || createProfile == "" {
				return fmt.Errorf("--pattern and --profile are required")
			}
			ctx := context.Background()
			app, err := loadApp(ctx, *dataDir)
			if err != nil {
				return err
			}
			defer app.Close()
			volume := createVolume
			if volume < 0 {
				volume = app.Config.DefaultVolume
			}
			out, err := app.SessionCLI.Create(ctx, createPattern, createProfile, volume)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created session %s\n", out.ID)
			return nil
		},
	}
	createCmd.Flags().StringVar(&createPattern, "pattern", "", "scan pattern id")
	createCmd.Flags().StringVar(&createProfile, "profile", "", "masking profile id")
	createCmd.Flags().Float64Var(&createVolume, "volume", -1, "volume level [0,1] (default from config)")
	session.AddCommand(createCmd)

	var rating int
	completeCmd := &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a session completed, optionally with a comfort rating",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var comfort *int
			if cmd.Flags().Changed("rating") {
				comfort = &rating
			}
			ctx := context.Background()
			app, err := loadApp(ctx, *dataDir)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.SessionCLI.Complete(ctx, args[0], comfort)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "completed session %s comfort=%s note=%s\n", out.ID, comfortLabel(out.ComfortRating), out.NotePath)
			return nil
		},
	}
	completeCmd.Flags().IntVar(&rating, "rating", 0, "comfort rating 1..10 (optional)")
	session.AddCommand(completeCmd)

	var withNote bool
	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := loadApp(ctx, *dataDir)
			if err != nil {
				return err
			}
			defer app.Close()
			if withNote {
				note, err := app.SessionCLI.Note(ctx, args[0])
				if err != nil {
					return err
				}
				return renderNote(cmd.OutOrStdout(), note.Body)
			}
			out, err := app.SessionCLI.Get(ctx, args[0])
			if err != nil {
				return err
			}
			printSession(cmd.OutOrStdout(), out)
			return nil
		},
	}
	showCmd.Flags().BoolVar(&withNote, "note", false, "render the session note")
	session.AddCommand(showCmd)

	session.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.Background()
			app, err := loadApp(ctx, *dataDir)
			if err != nil {
				return err
			}
			defer app.Close()
			list, err := app.SessionCLI.List(ctx)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
				return nil
			}
			for _, s := range list {
				outcome := s.Outcome
				if outcome == "" {
					outcome = "open"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\n",
					s.ID, s.StartTime.Local().Format("2006-01-02 15:04"), s.PatternName, s.ProfileName, outcome)
			}
			return nil
		},
	})

	session.AddCommand(&cobra.Command{
		Use:   "active",
		Short: "Show the session currently playing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.Background()
			app, err := loadApp(ctx, *dataDir)
			if err != nil {
				return err
			}
			defer app.Close()
			active, err := app.SessionCLI.GetActive(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "active session %s: %s with %s since %s\n",
				active.SessionID, active.PatternName, active.ProfileName, active.StartedAt.Local().Format(time.Kitchen))
			return nil
		},
	})
	return session
}

func newSessionRunCmd(dataDir *string) *cobra.Command {
	var patternID, profileID, listen string
	var volume float64
	var recommended, tui bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Play a masking session for a scan pattern",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			app, err := loadApp(ctx, *dataDir)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := pickSession(ctx, app, &patternID, &profileID); err != nil {
				return err
			}
			input := sessiondto.RunInput{PatternID: patternID, ProfileID: profileID}
			if cmd.Flags().Changed("volume") {
				input.VolumeLevel = timelinedto.Scale(volume)
			}
			if recommended {
				assessment, err := app.CatalogCLI.Effectiveness(ctx, patternID, profileID)
				if err != nil {
					return err
				}
				input.VolumeLevel = timelinedto.Scale(assessment.RecommendedVolume)
			}
			if !cmd.Flags().Changed("listen") {
				listen = app.Config.Server.Addr
			}
			if listen != "" {
				addr, err := app.ServeProgress(ctx, listen)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "progress: http://%s/status  ws://%s/events\n", addr, addr)
			}

			var out sessiondto.RunOutput
			if tui {
				title, err := sessionTitle(ctx, app, patternID, profileID)
				if err != nil {
					return err
				}
				out, err = bootstrap.RunSessionTUI(ctx, app, input, title)
				if err != nil {
					return err
				}
			} else {
				input.OnEvent = progressPrinter(cmd.OutOrStdout())
				out, err = app.SessionCLI.Run(ctx, input)
				if err != nil {
					return err
				}
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "session %s %s after %ds (run %d)\n", out.Session.ID, out.Session.Outcome, out.Session.DurationSeconds, out.Run)
			if out.Session.NotePath != "" {
				_, _ = fmt.Fprintf(w, "note: %s\n", out.Session.NotePath)
			}
			if wav := app.Synth.LastRender(); wav != "" {
				_, _ = fmt.Fprintf(w, "render: %s\n", wav)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&patternID, "pattern", "", "scan pattern id (prompted when empty)")
	cmd.Flags().StringVar(&profileID, "profile", "", "masking profile id (prompted when empty)")
	cmd.Flags().Float64Var(&volume, "volume", 0, "base volume scale [0,1] (default: the engine's current scale, initially default_volume)")
	cmd.Flags().BoolVar(&recommended, "recommended", false, "use the recommended volume for this pattern and profile")
	cmd.Flags().BoolVar(&tui, "tui", false, "show the live session view")
	cmd.Flags().StringVar(&listen, "listen", "", "serve live progress on this address (default server.addr)")
	return cmd
}

// pickSession prompts for whichever of pattern and profile is missing.
func pickSession(ctx context.Context, app *bootstrap.App, patternID, profileID *string) error {
	var fields []huh.Field
	if *patternID == "" {
		patterns, err := app.CatalogCLI.ListPatterns(ctx)
		if err != nil {
			return err
		}
		options := make([]huh.Option[string], 0, len(patterns))
		for _, p := range patterns {
			options = append(options, huh.NewOption(fmt.Sprintf("%s (%d min)", p.Name, p.DurationMinutes), p.ID))
		}
		fields = append(fields, huh.NewSelect[string]().Title("Scan pattern").Options(options...).Value(patternID))
	}
	if *profileID == "" {
		profiles, err := app.CatalogCLI.ListProfiles(ctx)
		if err != nil {
			return err
		}
		options := make([]huh.Option[string], 0, len(profiles))
		for _, p := range profiles {
			options = append(options, huh.NewOption(fmt.Sprintf("%s (%s)", p.Name, p.Type), p.ID))
		}
		fields = append(fields, huh.NewSelect[string]().Title("Masking sound").Options(options...).Value(profileID))
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).RunWithContext(ctx)
}

func sessionTitle(ctx context.Context, app *bootstrap.App, patternID, profileID string) (string, error) {
	pattern, err := app.CatalogCLI.GetPattern(ctx, patternID)
	if err != nil {
		return "", err
	}
	profile, err := app.CatalogCLI.GetProfile(ctx, profileID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s with %s", pattern.Name, profile.Name), nil
}

// progressPrinter prints phase changes, a line per minute and the end of
// the run.
func progressPrinter(w io.Writer) func(timelinedto.Event) {
	lastPhase := -1
	return func(ev timelinedto.Event) {
		switch ev.Kind {
		case timelinedto.EventProgress:
			p := ev.Progress
			if p.PhaseIndex != lastPhase || (p.ElapsedSeconds > 0 && p.ElapsedSeconds%60 == 0) {
				lastPhase = p.PhaseIndex
				_, _ = fmt.Fprintf(w, "%5.1f%%  %-20s  volume %.2f  %ds left\n", p.ProgressPercent, p.PhaseLabel, p.AppliedVolume, p.RemainingSeconds)
			}
		case timelinedto.EventCompleted:
			_, _ = fmt.Fprintln(w, "scan complete")
		case timelinedto.EventStopped:
			_, _ = fmt.Fprintln(w, "masking stopped")
		}
	}
}

func printSession(w io.Writer, s sessiondto.SessionOutput) {
	_, _ = fmt.Fprintf(w, "session %s\npattern: %s (%s)\nprofile: %s (%s)\nstarted: %s\nvolume: %.2f\n",
		s.ID, s.PatternName, s.PatternID, s.ProfileName, s.ProfileID, s.StartTime.Local().Format(time.RFC3339), s.VolumeLevel)
	if !s.EndTime.IsZero() {
		_, _ = fmt.Fprintf(w, "ended: %s (%ds)\n", s.EndTime.Local().Format(time.RFC3339), s.DurationSeconds)
	}
	outcome := s.Outcome
	if outcome == "" {
		outcome = "open"
	}
	_, _ = fmt.Fprintf(w, "outcome: %s\ncompleted: %t\n", outcome, s.Completed)
	_, _ = fmt.Fprintf(w, "comfort: %s\n", comfortLabel(s.ComfortRating))
	if s.NotePath != "" {
		_, _ = fmt.Fprintf(w, "note: %s\n", s.NotePath)
	}
}

func comfortLabel(rating *int) string {
	if rating == nil {
		return "unrated"
	}
	return fmt.Sprintf("%d/10", *rating)
}

func renderNote(w io.Writer, body string) error {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return err
	}
	rendered, err := r.Render(body)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, rendered)
	return err
}
