package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arkline-labs/chainpulse/internal/core/domain"
	"github.com/arkline-labs/chainpulse/internal/core/ports/driven"
	"github.com/arkline-labs/chainpulse/internal/logger"
)

// askSystemPrompt grounds the model in retrieved context only.
const askSystemPrompt = `You are chainpulse, an assistant for the Base DeFi ecosystem.
Answer using ONLY the provided context. If the context does not cover
the question, say so plainly. Quote TVL and change figures exactly as
they appear in the context.`

var askLimit int

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the Base ecosystem",
	Long: `Retrieves the most relevant corpus chunks for the question and, when
an LLM is configured, generates a grounded answer. Without an LLM the
raw retrieval context is printed instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askLimit, "limit", "n", 5, "number of context chunks to retrieve")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	chunks, err := retrievalService.FindRelevantDocuments(cmd.Context(), question, askLimit)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}
	if len(chunks) == 0 {
		cmd.Println("Nothing in the corpus matches that question.")
		return nil
	}

	contextBlob := retrievalService.FormatContext(chunks)

	if llmService == nil {
		cmd.Println("No LLM configured; showing retrieved context:")
		cmd.Println()
		cmd.Println(contextBlob)
		return nil
	}

	answer, err := llmService.Chat(cmd.Context(), []driven.ChatMessage{
		{Role: "system", Content: askSystemPrompt},
		{Role: "user", Content: "Context:\n" + contextBlob + "\n\nQuestion: " + question},
	}, driven.ChatOptions{MaxTokens: 600, Temperature: 0.2})
	if err != nil {
		if errors.Is(err, domain.ErrLLMUnavailable) {
			logger.Warn("LLM unavailable, falling back to raw context: %v", err)
			cmd.Println("LLM unavailable; showing retrieved context:")
			cmd.Println()
			cmd.Println(contextBlob)
			return nil
		}
		return fmt.Errorf("generate answer: %w", err)
	}

	cmd.Println(strings.TrimSpace(answer))
	return nil
}
