package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arkline-labs/chainpulse/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the ecosystem document corpus",
	Long: `Ranks corpus chunks against the query by lexical term overlap and
prints the most relevant ones. Comparison-style queries return a
single synthesized side-by-side chunk.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	chunks, err := retrievalService.FindRelevantDocuments(cmd.Context(), query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, chunks)
	}

	return outputSearchList(cmd, chunks)
}

func outputSearchJSON(cmd *cobra.Command, chunks []domain.Chunk) error {
	data, err := json.MarshalIndent(chunks, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchList(cmd *cobra.Command, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, c := range chunks {
		label := c.Source
		if c.Protocol != "" {
			label = c.Protocol
		}
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, label, c.Score)
		if c.Category != "" {
			cmd.Printf("      Category: %s\n", c.Category)
		}
		cmd.Printf("      %s\n", firstLine(c.Content))
		cmd.Println()
	}

	return nil
}

// firstLine trims a chunk down to a one-line preview.
func firstLine(content string) string {
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			return content[:i]
		}
	}
	return content
}
