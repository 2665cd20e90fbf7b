package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/dataset"
	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/filter"
	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/models"
)

var backfillDryRun bool

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Derive missing year, make, model, fuel type and registration city",
	Long: `Fill listing fields the raw dataset leaves empty so that the filters can match them:
year from the title, make from a known make in the title (else the first word),
model from the second title word, fuel type from the features (else Petrol) and
registration city from a known city in the seller location.`,
	RunE: runBackfill,
}

func init() {
	backfillCmd.Flags().BoolVar(&backfillDryRun, "dry-run", false, "report changes without writing them")
}

func runBackfill(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	repo, closeFn, err := openCars(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	total, err := repo.Count(ctx, filter.Filter{})
	if err != nil {
		return err
	}

	bar := newProgressBar(total, "Backfilling")
	updated := 0
	err = repo.Each(ctx, 0, func(car models.Car) error {
		defer func() { _ = bar.Add(1) }()

		set := dataset.Backfill(car)
		if len(set) == 0 {
			return nil
		}
		log.Debug().Str("id", car.ID.Hex()).Interface("set", set).Msg("backfill")
		updated++
		if backfillDryRun {
			return nil
		}
		return repo.SetFields(ctx, car.ID, set)
	})
	_ = bar.Finish()
	if err != nil {
		return err
	}

	if backfillDryRun {
		info("%d of %d listings would be updated", updated, total)
		return nil
	}
	success("Updated %d of %d listings", updated, total)
	return nil
}
