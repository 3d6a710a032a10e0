// Command chainpulse is a conversational assistant for the Base DeFi
// ecosystem: it ingests a local document corpus, keeps a protocol
// cache refreshed from public analytics, and answers questions
// through the CLI, a chat TUI, or an MCP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	configfile "github.com/arkline-labs/chainpulse/internal/adapters/driven/config/file"
	"github.com/arkline-labs/chainpulse/internal/adapters/driven/llm/openai"
	"github.com/arkline-labs/chainpulse/internal/adapters/driven/provider/llama"
	"github.com/arkline-labs/chainpulse/internal/adapters/driven/provider/static"
	"github.com/arkline-labs/chainpulse/internal/adapters/driven/storage/file"
	"github.com/arkline-labs/chainpulse/internal/adapters/driven/storage/memory"
	"github.com/arkline-labs/chainpulse/internal/adapters/driven/watch"
	"github.com/arkline-labs/chainpulse/internal/adapters/driving/cli"
	"github.com/arkline-labs/chainpulse/internal/core/ports/driven"
	"github.com/arkline-labs/chainpulse/internal/core/services"
	"github.com/arkline-labs/chainpulse/internal/loaders"
	"github.com/arkline-labs/chainpulse/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "chainpulse: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Local overrides for API keys and endpoints. Absence is fine.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := configfile.NewConfigStore(os.Getenv("CHAINPULSE_CONFIG_DIR"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Corpus: ingest once at startup; the watcher keeps it fresh for
	// long-running commands.
	corpus := memory.NewCorpusStore()
	registry := loaders.DefaultRegistry()
	corpusDir := cfg.GetString(configfile.KeyCorpusDir)
	if chunks, err := registry.LoadDir(ctx, corpusDir); err != nil {
		logger.Warn("Corpus ingestion failed, starting with empty corpus: %v", err)
	} else if err := corpus.ReplaceAll(ctx, chunks); err != nil {
		return fmt.Errorf("seed corpus: %w", err)
	}

	// Protocol cache: snapshot holder, persistence and refresher.
	holder := services.NewSnapshotHolder()
	snapStore, err := file.NewSnapshotStore(cfg.GetString(configfile.KeySnapshotPath))
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}

	provider := llama.New(llama.Config{
		BaseURL: cfg.GetString(configfile.KeyProviderBaseURL),
	})
	fallback := static.New()

	refresher := services.NewRefresher(provider, fallback, snapStore, holder, services.RefreshConfig{
		Interval:    time.Duration(cfg.GetInt(configfile.KeyRefreshIntervalHours)) * time.Hour,
		MaxAttempts: cfg.GetInt(configfile.KeyRefreshMaxAttempts),
		BaseDelay:   time.Duration(cfg.GetInt(configfile.KeyRefreshBaseDelaySecs)) * time.Second,
		TopN:        cfg.GetInt(configfile.KeyRefreshTopN),
	})
	if err := refresher.LoadPersisted(ctx); err != nil {
		logger.Warn("Could not load persisted snapshot: %v", err)
	}

	// Core services.
	retrieval := services.NewRetrievalService(corpus, services.NewComparisonService())
	cache := services.NewCacheService(holder)

	cli.SetServices(cli.Services{
		Retrieval: retrieval,
		Cache:     cache,
		Refresh:   refresher,
		LLM:       buildLLM(cfg),
	})
	cli.SetVersion(version)

	if cfg.GetBool(configfile.KeyCorpusWatch) {
		cli.SetCorpusWatcher(watch.NewWatcher(registry, corpus, corpusDir, 0))
	}

	return cli.Execute(ctx)
}

// buildLLM constructs the optional LLM service. Without an API key or
// an explicit base URL (local runtime) the chat layer degrades to
// showing raw retrieval context.
func buildLLM(cfg *configfile.ConfigStore) driven.LLMService {
	apiKey := os.Getenv("OPENAI_API_KEY")
	baseURL := cfg.GetString(configfile.KeyLLMBaseURL)
	if apiKey == "" && baseURL == "" {
		return nil
	}
	return openai.New(openai.Config{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Model:   cfg.GetString(configfile.KeyLLMModel),
	})
}
