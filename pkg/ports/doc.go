/*
Package ports defines the driven ports (interfaces) of the formalizer.

These interfaces decouple the formalization core from external implementations,
allowing the pipeline to work with any chat-completion backend and any history
storage.

# Key Interfaces

  - RemoteFormalizer: Sends a built prompt to a hosted model and returns a typed result.
  - HistoryStore: Persists recent outcomes per session, newest first, bounded.
  - Formalizer: The driving port consumed by user-facing adapters (HTTP, MCP, CLI).
*/
package ports
