package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/coot-trips/tripsort/pkg/core/services"
	"github.com/coot-trips/tripsort/pkg/core/sorter"
)

// ValidateTripsCmd creates the validateTrips command
func ValidateTripsCmd(app *AppContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "validateTrips",
		Short: "Check gender balance, shared teams, shared dorms and comfort on every trip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.ValidateTrips(app.Ctx, app.Database, app.Logger)
			if err != nil {
				return err
			}

			printValidateTrips(os.Stdout, result, all)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Show trips that passed as well")

	return cmd
}

func printValidateTrips(w io.Writer, result *services.ValidateTripsResult, all bool) {
	fmt.Fprintf(w, "\n%d trip(s) with students, %d failing\n", len(result.Reports), result.InvalidCount())

	for _, report := range result.Reports {
		if report.Validation.OverallValid && !all {
			continue
		}
		printValidation(w, fmt.Sprintf("%s (%d/%d)", report.Trip.TripName, len(report.Students), report.Trip.Capacity), report.Validation)
	}

	if len(result.Unassigned) > 0 {
		fmt.Fprintf(w, "\n%d unassigned student(s):\n", len(result.Unassigned))
		for _, s := range result.Unassigned {
			fmt.Fprintf(w, "  - %s\n", s.FullName())
		}
	}
	fmt.Fprintln(w)
}

func printValidation(w io.Writer, title string, v sorter.TripValidation) {
	mark := "✓"
	if !v.OverallValid {
		mark = "✗"
	}
	fmt.Fprintf(w, "\n%s %s\n", mark, title)

	checks := []struct {
		name  string
		check sorter.ValidationCheck
	}{
		{"Gender", v.GenderRatio},
		{"Teams", v.AthleticTeams},
		{"Dorms", v.Roommates},
		{"Comfort", v.ComfortLevels},
	}
	for _, c := range checks {
		if c.check.Valid {
			fmt.Fprintf(w, "    %-8s %s\n", c.name, c.check.Message)
			continue
		}
		fmt.Fprintf(w, "  ! %-8s %s\n", c.name, c.check.Message)
		for _, d := range c.check.Details {
			fmt.Fprintf(w, "             %s\n", d)
		}
	}
}
