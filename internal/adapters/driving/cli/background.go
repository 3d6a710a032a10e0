package cli

import (
	"context"
	"fmt"
	"os"
)

// CorpusWatcher reloads the corpus on file changes. Optional; wired
// only when watching is enabled in config.
type CorpusWatcher interface {
	Start(ctx context.Context) error
	Stop()
}

var corpusWatcher CorpusWatcher

// SetCorpusWatcher wires the optional corpus watcher into the
// long-running commands.
func SetCorpusWatcher(w CorpusWatcher) {
	corpusWatcher = w
}

// startBackground launches the refresh loop and corpus watcher for
// long-running commands (chat, mcp serve). The returned stop func
// shuts both down.
func startBackground(ctx context.Context) func() {
	bgCtx, cancel := context.WithCancel(ctx)

	if refreshService != nil {
		go func() {
			if err := refreshService.Start(bgCtx); err != nil {
				// Refresh loop failures must not take the UI down.
				fmt.Fprintf(os.Stderr, "refresh loop stopped: %v\n", err)
			}
		}()
	}

	if corpusWatcher != nil {
		if err := corpusWatcher.Start(bgCtx); err != nil {
			fmt.Fprintf(os.Stderr, "corpus watcher failed to start: %v\n", err)
		}
	}

	return func() {
		cancel()
		if corpusWatcher != nil {
			corpusWatcher.Stop()
		}
		if refreshService != nil {
			if err := refreshService.Stop(); err != nil {
				fmt.Fprintf(os.Stderr, "refresh stop error: %v\n", err)
			}
		}
	}
}
