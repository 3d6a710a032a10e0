// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - CorpusStore: holds the in-memory chunk corpus
//   - ChunkLoader / LoaderRegistry: build chunks from static artifacts
//   - ProtocolProvider: external DeFi analytics API
//   - LocalDataset: static fallback protocol records
//   - SnapshotStore: persisted cache snapshot
//   - ConfigStore: application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: answer generation in the chat layer. Without it, raw
//     retrieval context is shown instead of a generated answer.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or loader package
package driven
