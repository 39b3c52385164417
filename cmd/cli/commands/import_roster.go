package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coot-trips/tripsort/pkg/core/services"
)

// ImportRosterCmd creates the importRoster command
func ImportRosterCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "importRoster",
		Short: "Import students and trips from the roster spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.SheetsClient()
			if err != nil {
				return err
			}

			result, err := services.ImportRoster(app.Ctx, client, app.Database, app.Cfg, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Imported %d students and %d trips\n", result.Students, result.Trips)
			if len(result.UnknownPreferences) > 0 {
				fmt.Printf("\n⚠ Preferences naming no trip type (these never match): %s\n",
					strings.Join(result.UnknownPreferences, ", "))
			}
			fmt.Println()

			return nil
		},
	}
}
