package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare [protocol] [protocol]",
	Short: "Compare two protocols side by side",
	Long: `Builds a side-by-side comparison of two protocols from their corpus
records: category, TVL, 24h change and any further tracked metrics.`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	first, second := strings.TrimSpace(args[0]), strings.TrimSpace(args[1])
	query := fmt.Sprintf("compare %s vs %s", first, second)

	chunks, err := retrievalService.FindRelevantDocuments(cmd.Context(), query, 1)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}
	if len(chunks) == 0 {
		cmd.Printf("Not enough data to compare %s and %s.\n", first, second)
		return nil
	}

	cmd.Println(chunks[0].Content)
	return nil
}
