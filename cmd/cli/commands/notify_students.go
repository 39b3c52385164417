package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coot-trips/tripsort/pkg/core/services"
)

// NotifyStudentsCmd creates the notifyStudents command
func NotifyStudentsCmd(app *AppContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "notifyStudents",
		Short: "Email every assigned student the trip they were placed on",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var sender services.EmailSender
			if !dryRun {
				client, err := app.GmailClient()
				if err != nil {
					return err
				}
				sender = client
			}

			result, err := services.NotifyStudents(app.Ctx, app.Database, sender, app.Logger, dryRun)
			if err != nil {
				return err
			}

			printNotifyStudents(os.Stdout, result, dryRun)

			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Render the emails without sending")

	return cmd
}

func printNotifyStudents(w io.Writer, result *services.NotifyStudentsResult, dryRun bool) {
	if dryRun {
		fmt.Fprintf(w, "\n✓ Dry run: would send %d email(s)\n", result.WouldSend)
	} else {
		fmt.Fprintf(w, "\n✓ Sent %d email(s)\n", result.Sent)
	}
	if len(result.Skipped) > 0 {
		fmt.Fprintf(w, "  Skipped %d (no trip or no email): %s\n", len(result.Skipped), strings.Join(result.Skipped, ", "))
	}
	if len(result.Failed) > 0 {
		fmt.Fprintf(w, "⚠ Failed %d: %s\n", len(result.Failed), strings.Join(result.Failed, ", "))
	}
	fmt.Fprintln(w)
}
