/*
Package session implements the history-keeping side of a formalization.

A Manager runs the formalizer for a caller-supplied session ID and records the
outcome in a HistoryStore. State lives in the store and is passed explicitly
through every call; nothing is held in ambient globals. Appends to the same
session are serialized (locally, and across replicas when a DistributedLocker
is configured) so that append-then-truncate is never interleaved.
*/
package session
