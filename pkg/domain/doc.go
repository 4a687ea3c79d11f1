/*
Package domain contains the core domain models of the formalizer.

It defines the fixed tone registry, the request and outcome values that flow
through the formalization pipeline, the typed remote result, and the history
entry handed to storage adapters. This package is kept pure and free of
external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - Tone: An immutable style profile (prompt modifier, salutation, closing).
  - Request: The raw text plus the resolved tone for a single user action.
  - Outcome: The final text and whether it came from the remote model or the template.
  - RemoteResult: The typed success/failure result of a remote formalization attempt.
  - HistoryEntry: A recorded outcome, as stored by a HistoryStore.
*/
package domain
