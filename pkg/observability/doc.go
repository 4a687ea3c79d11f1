/*
Package observability provides monitoring for the formalizer.

It translates the orchestrator's lifecycle hooks into Prometheus metrics:
outcome counts by source and tone, remote failures by reason, rejected inputs
by reason, and remote attempt latency.
*/
package observability
