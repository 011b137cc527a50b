package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scanmask/internal/bootstrap"
	"scanmask/internal/platform/config"
	"scanmask/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "scanmask",
		Short:         "Adaptive noise masking for imaging scans",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data", ".", "data directory (database, notes, renders, scanmask.yaml)")

	root.AddCommand(newPatternsCmd(&dataDir))
	root.AddCommand(newProfilesCmd(&dataDir))
	root.AddCommand(newEffectivenessCmd(&dataDir))
	root.AddCommand(newSessionCmd(&dataDir))
	return root
}

// loadApp reads the configuration, wires the application and makes sure
// the catalog holds the built-in patterns and profiles.
func loadApp(ctx context.Context, dataDir string) (*bootstrap.App, error) {
	cfg, err := config.Load(dataDir)
	if err != nil {
		return nil, err
	}
	log := logging.New(cfg.Log, os.Stderr)
	app, err := bootstrap.New(cfg, log, nil)
	if err != nil {
		return nil, err
	}
	seeded, err := app.CatalogCLI.Seed(ctx)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	if seeded.PatternsAdded > 0 || seeded.ProfilesAdded > 0 {
		log.Info("catalog seeded", "patterns", seeded.PatternsAdded, "profiles", seeded.ProfilesAdded)
	}
	return app, nil
}
