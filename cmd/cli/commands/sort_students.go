package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coot-trips/tripsort/pkg/core/services"
	"github.com/coot-trips/tripsort/pkg/core/sorter"
)

// SortStudentsCmd creates the sortStudents command
func SortStudentsCmd(app *AppContext) *cobra.Command {
	var (
		seed     uint64
		dryRun   bool
		criteria []string
	)

	cmd := &cobra.Command{
		Use:   "sortStudents",
		Short: "Assign every student to a trip and save the assignments",
		Long: `Assigns students to trips by preference, retrying until every trip passes validation
or the attempt limit is reached. Students with low water or tent comfort are placed first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := services.SortParams{DryRun: dryRun}
			if cmd.Flags().Changed("seed") {
				params.Seed = &seed
			}
			if len(criteria) > 0 {
				parsed, err := sorter.ParseCriteria(criteria)
				if err != nil {
					return fmt.Errorf("invalid --criteria: %w", err)
				}
				params.Criteria = parsed
			}

			app.Logger.Debug("sortStudents command",
				zap.Bool("dry_run", dryRun),
				zap.Strings("criteria", criteria))

			outcome, err := services.SortStudents(app.Ctx, app.Database, app.Locker, app.Cfg, app.Logger, params)
			if err != nil {
				return err
			}

			printSortOutcome(os.Stdout, outcome)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for the fairness shuffle (random if not set)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Sort without saving assignments")
	cmd.Flags().StringSliceVar(&criteria, "criteria", nil, "Constraint order, e.g. gender,dorm (overrides config)")

	return cmd
}

func printSortOutcome(w io.Writer, outcome *services.SortOutcome) {
	result := outcome.Result

	if outcome.Run != nil {
		fmt.Fprintf(w, "\nSort run %s\n", outcome.Run.ID)
		if outcome.Run.Seed != nil {
			fmt.Fprintf(w, "Seed:           %d\n", *outcome.Run.Seed)
		}
	}
	fmt.Fprintf(w, "\nAssigned:       %d / %d (%.1f%%)\n", result.Assigned, result.Total, result.AssignmentRate)
	fmt.Fprintf(w, "First choice:   %d (%.1f%%)\n", result.FirstChoice, result.FirstChoiceRate)
	fmt.Fprintf(w, "Second choice:  %d\n", result.SecondChoice)
	fmt.Fprintf(w, "Third choice:   %d\n", result.ThirdChoice)
	fmt.Fprintf(w, "No preference:  %d\n", result.NoPreference)
	fmt.Fprintf(w, "Attempts:       %d\n", result.Attempts)

	if result.AllValid {
		fmt.Fprintf(w, "\n✓ Every trip passed validation\n\n")
		return
	}

	fmt.Fprintf(w, "\n⚠ %d trip(s) failed validation:\n", len(outcome.Failures))
	names := make(map[string]string, len(outcome.Trips))
	for _, t := range outcome.Trips {
		names[t.ID] = t.TripName
	}
	for _, f := range outcome.Failures {
		printValidation(w, names[f.TripID], f)
	}
	fmt.Fprintln(w)
}
