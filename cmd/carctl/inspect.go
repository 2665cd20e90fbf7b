package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/models"
)

var inspectLimit int64

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the filterable fields of the first listings",
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().Int64VarP(&inspectLimit, "limit", "n", 10, "number of listings to print")
}

func runInspect(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	repo, closeFn, err := openCars(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	label := color.New(color.FgHiBlack).SprintFunc()
	title := color.New(color.Bold).SprintFunc()

	// Values are quoted so stray whitespace shows up.
	return repo.Each(ctx, inspectLimit, func(c models.Car) error {
		fmt.Printf("%s %s\n", title(c.Title), label(c.ID.Hex()))
		fields := []struct{ k, v string }{
			{"make", c.Make},
			{"model", c.Model},
			{"bodyType", c.BodyType},
			{"fuelType", c.FuelType},
			{"transmission", c.Transmission},
			{"color", c.Color},
			{"engine", c.EngineDisplacement},
			{"location", c.Location},
			{"registrationCity", c.RegistrationCity},
			{"status", c.Status},
			{"type", c.Type},
		}
		for _, f := range fields {
			fmt.Printf("  %-17s %q\n", label(f.k), f.v)
		}
		fmt.Printf("  %-17s %d\n  %-17s %d\n\n", label("price"), c.Price, label("year"), c.Year)
		return nil
	})
}
