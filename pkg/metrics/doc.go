/*
Package metrics defines the service's Prometheus collectors.

Collectors cover the lifecycle (registrations, ingestion outcomes and
durations, queue depth), the index build path, the query path (query
counts by mode, retrieval latency), streaming (live sessions, tokens
streamed), and the HTTP surface (request counts and durations). All
metrics are registered on the default registry in init and exposed via
Handler on /metrics.
*/
package metrics
