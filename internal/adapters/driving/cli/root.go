// Package cli provides the cobra command surface of chainpulse.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/arkline-labs/chainpulse/internal/core/ports/driven"
	"github.com/arkline-labs/chainpulse/internal/core/ports/driving"
	"github.com/arkline-labs/chainpulse/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services injected by the composition root before Execute runs.
var (
	retrievalService driving.RetrievalService
	cacheService     driving.CacheService
	refreshService   driving.RefreshOrchestrator
	llmService       driven.LLMService
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "chainpulse",
	Short: "Conversational insight into the Base DeFi ecosystem",
	Long: `chainpulse answers questions about the Base ecosystem from a local
document corpus and a periodically refreshed protocol cache.

Ask free-text questions, compare protocols side by side, or look up
cached TVL figures directly.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

// Services bundles everything the commands need from the core.
type Services struct {
	Retrieval driving.RetrievalService
	Cache     driving.CacheService
	Refresh   driving.RefreshOrchestrator

	// LLM is optional; commands degrade to raw retrieval context
	// when it is nil.
	LLM driven.LLMService
}

// SetServices wires the core services into the command tree.
func SetServices(s Services) {
	retrievalService = s.Retrieval
	cacheService = s.Cache
	refreshService = s.Refresh
	llmService = s.LLM
}

// SetVersion overrides the reported version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
