// Package oteladapters connects the library observability interfaces to OpenTelemetry.
//
// SlogBridgeLogger routes log records through the otelslog bridge so they carry the active trace and span ids.
// MetricsCollector creates histograms, counters and gauges on first use. TracingCollector opens one span per
// repository operation or use case call and maps the status strings used across the module to span codes.
//
// All adapters use whatever providers they are given, so tests can plug in the in-memory SDK exporters.
package oteladapters
