package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coot-trips/tripsort/pkg/core/services"
)

// PublishRostersCmd creates the publishRosters command
func PublishRostersCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publishRosters",
		Short: "Write the current trip rosters to the publish spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.SheetsClient()
			if err != nil {
				return err
			}

			rosters, err := services.PublishRosters(app.Ctx, app.Database, client, app.Cfg, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Published %d trips to tab %q\n", len(rosters.Trips), rosters.Title)
			if n := len(rosters.Unassigned); n > 0 {
				fmt.Printf("⚠ %d student(s) unassigned\n", n)
			}
			fmt.Println()

			return nil
		},
	}
}
