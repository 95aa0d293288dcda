// Package observability exposes Prometheus metrics for the nrcap HTTP
// server: request counts and latencies per route, and dimensioning
// outcomes per selected frequency range.
package observability
