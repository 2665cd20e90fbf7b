package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/dataset"
	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/models"
)

var (
	seedFile  string
	seedDrop  bool
	seedBatch int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import the PakWheels usedCars dataset",
	Example: `  carctl seed --file usedCars.json
  carctl seed --file usedCars.json --drop`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "usedCars.json", "path to the PakWheels export")
	seedCmd.Flags().BoolVar(&seedDrop, "drop", false, "delete every existing listing first")
	seedCmd.Flags().IntVar(&seedBatch, "batch", 500, "listings per insert")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	f, err := os.Open(seedFile)
	if err != nil {
		return fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	records, err := dataset.Load(f)
	if err != nil {
		return err
	}
	info("Read %d records from %s", len(records), seedFile)

	repo, closeFn, err := openCars(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	if seedDrop {
		n, err := repo.DeleteAll(ctx)
		if err != nil {
			return err
		}
		warning("Deleted %d existing listings", n)
	}

	if seedBatch < 1 {
		seedBatch = 500
	}

	now := time.Now().UTC()
	bar := newProgressBar(int64(len(records)), "Importing")
	inserted, skipped := 0, 0
	batch := make([]models.Car, 0, seedBatch)

	flush := func() error {
		n, err := repo.InsertMany(ctx, batch)
		inserted += n
		batch = batch[:0]
		return err
	}

	for _, r := range records {
		car := r.ToCar(now)
		if car.Title == "" || car.Price <= 0 {
			skipped++
			_ = bar.Add(1)
			continue
		}
		batch = append(batch, car)
		if len(batch) == seedBatch {
			if err := flush(); err != nil {
				return err
			}
		}
		_ = bar.Add(1)
	}
	if err := flush(); err != nil {
		return err
	}
	_ = bar.Finish()

	success("Imported %d listings (%d skipped without title or price)", inserted, skipped)
	return nil
}
