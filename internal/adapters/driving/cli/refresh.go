package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arkline-labs/chainpulse/internal/core/domain"
)

var refreshStatusOnly bool

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the protocol cache now",
	Long: `Runs one on-demand cache refresh cycle: fetches the trending list,
pulls details for the top entries, merges the local fallback dataset
and publishes a new snapshot. Use --status to inspect the current
state without refreshing.`,
	RunE: runRefresh,
}

func init() {
	refreshCmd.Flags().BoolVar(&refreshStatusOnly, "status", false, "show refresh status without refreshing")
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	if refreshService == nil {
		return errors.New("refresh service not configured")
	}

	if refreshStatusOnly {
		printRefreshStatus(cmd)
		return nil
	}

	cmd.Println("Refreshing protocol cache...")
	if err := refreshService.RefreshNow(cmd.Context()); err != nil {
		if errors.Is(err, domain.ErrRefreshInProgress) {
			cmd.Println("A refresh is already in progress.")
			return nil
		}
		return fmt.Errorf("refresh failed: %w", err)
	}

	status := refreshService.Status()
	cmd.Printf("Refresh complete. Snapshot is now v%d.\n", status.Version)
	return nil
}

func printRefreshStatus(cmd *cobra.Command) {
	status := refreshService.Status()

	cmd.Printf("Running:      %t\n", status.Running)
	cmd.Printf("Version:      %d\n", status.Version)
	if !status.LastAttempt.IsZero() {
		cmd.Printf("Last attempt: %s\n", status.LastAttempt.Format("2006-01-02 15:04:05 MST"))
	}
	if !status.LastSuccess.IsZero() {
		cmd.Printf("Last success: %s\n", status.LastSuccess.Format("2006-01-02 15:04:05 MST"))
	}
	if status.LastError != "" {
		cmd.Printf("Last error:   %s\n", status.LastError)
	}
}
