// Package tracing is a thin OpenTelemetry wrapper used to span agent
// invocations and orchestration runs.  All instrumentation is kept in a
// separate package so that applications which do not require tracing can
// exclude it from their build.
package tracing
