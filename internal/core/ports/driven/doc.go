// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DocumentStore: Document metadata persistence
//   - HistoryStore: Chat turn persistence
//   - FileStore: Raw file and report artifact storage
//   - Parser: Text and table extraction from raw files
//   - ReportRenderer: Turns report blocks into a binary document
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - VectorIndex: Chunk storage and similarity search. Without it, chat answers "not available".
//   - EmbeddingService: Used by VectorIndex implementations to embed texts.
//   - LLMService: Language model operations. Without it, answers fall back to the top chunk.
//   - FolderFetcher: Remote folder download. Without it, drive ingestion is disabled.
//   - TokenCounter: Bounds prompt context. Without it, all retrieved chunks are sent.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
