package main

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/config"
	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/database"
	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/logging"
	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/repository"
)

var (
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:          "carctl",
	Short:        "Maintenance tasks for the listings collection",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
		level := "warn"
		if verbose {
			level = "debug"
		}
		logging.Setup(level, "console")
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(seedCmd, backfillCmd, inspectCmd)
}

// openCars loads configuration, connects and returns the listing repository.
// The returned func disconnects.
func openCars(ctx context.Context) (*repository.CarMongo, func(), error) {
	cfg := config.Load()

	sp := newSpinner("Connecting to MongoDB")
	sp.Start()
	client, err := database.NewMongo(ctx, cfg.MongoURI)
	sp.Stop()
	if err != nil {
		return nil, nil, err
	}
	success("Connected to %s", cfg.DBName)

	return repository.NewCarRepository(client.Database(cfg.DBName)), func() { database.Disconnect(client) }, nil
}
