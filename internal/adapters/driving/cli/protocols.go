package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arkline-labs/chainpulse/internal/core/domain"
)

var protocolsTop int

var protocolsCmd = &cobra.Command{
	Use:   "protocols",
	Short: "List cached protocols by TVL",
	RunE:  runProtocols,
}

func init() {
	protocolsCmd.Flags().IntVarP(&protocolsTop, "top", "n", 10, "number of protocols to list (0 = all)")
	rootCmd.AddCommand(protocolsCmd)
}

func runProtocols(cmd *cobra.Command, _ []string) error {
	if cacheService == nil {
		return errors.New("cache service not configured")
	}

	protocols, err := cacheService.Top(cmd.Context(), protocolsTop)
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}
	if len(protocols) == 0 {
		cmd.Println("Cache is empty. Try `chainpulse refresh` first.")
		return nil
	}

	snap := cacheService.Snapshot(cmd.Context())
	cmd.Printf("Base protocols by TVL (snapshot v%d):\n\n", snap.Version)
	for i, p := range protocols {
		cmd.Printf("  %2d. %-20s %-12s %10s  %+.2f%%\n",
			i+1, p.Name, p.Category, domain.FormatTVL(p.TVL), p.Change1d)
	}
	return nil
}
