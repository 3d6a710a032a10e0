// Package domain contains the core types of chainpulse: retrieval
// chunks, protocol records, cache snapshots and the static vocabularies
// used for query routing. Domain types have no dependencies on adapters
// or external services.
package domain
