package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/arkline-labs/chainpulse/internal/adapters/driving/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Launch the interactive chat interface",
	Long: `Launch the interactive terminal chat over the ecosystem corpus.

Each question retrieves grounding context from the corpus; when an LLM
is configured the answer is generated from that context, otherwise the
context itself is shown.

Controls:
  Enter    - Ask
  ↑/↓      - Scroll transcript
  Ctrl+C   - Quit`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	// Panic recovery keeps stack traces visible outside the alt screen.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	stop := startBackground(cmd.Context())
	defer stop()

	model := tui.New(cmd.Context(), retrievalService, llmService)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat error: %w", err)
	}
	return nil
}
