// Package loaders converts static corpus artifacts into retrieval
// chunks. Each loader handles one artifact shape; the registry
// dispatches by file name and runs the full ingestion pass. A loader
// failure is confined to its artifact and never aborts ingestion of
// the remaining files.
package loaders
