package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arkline-labs/chainpulse/internal/core/domain"
)

var protocolCmd = &cobra.Command{
	Use:   "protocol [name]",
	Short: "Look up a cached protocol record",
	Long: `Resolves a free-text protocol name against the cached snapshot.
Aliases ("aero", "uni") and partial names are accepted.`,
	Args: cobra.ExactArgs(1),
	RunE: runProtocol,
}

func init() {
	rootCmd.AddCommand(protocolCmd)
}

func runProtocol(cmd *cobra.Command, args []string) error {
	if cacheService == nil {
		return errors.New("cache service not configured")
	}

	proto, err := cacheService.Lookup(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			cmd.Printf("No cached protocol matches %q. Try `chainpulse refresh` first.\n", args[0])
			return nil
		}
		return fmt.Errorf("lookup failed: %w", err)
	}

	cmd.Printf("%s (%s)\n", proto.Name, proto.Category)
	cmd.Printf("  %s\n", proto.Description)
	cmd.Printf("  TVL:        %s\n", domain.FormatTVL(proto.TVL))
	cmd.Printf("  24h change: %.2f%%\n", proto.Change1d)
	cmd.Printf("  7d change:  %.2f%%\n", proto.Change7d)
	cmd.Printf("  Chains:     %d\n", proto.Chains)
	cmd.Printf("  Website:    %s\n", proto.Website)
	cmd.Printf("  Source:     %s (as of %s)\n", proto.Source, proto.LastUpdated.Format("2006-01-02 15:04 MST"))
	return nil
}
