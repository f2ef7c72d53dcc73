// Package logging wires slog handlers and shared attribute helpers for the
// lodestone CLI and engine components. Console output uses a compact
// human-readable format; JSON output is available for machine consumption.
// Component loggers carry a standardized "component" attribute so engine
// packages can be filtered in aggregate output.
package logging
