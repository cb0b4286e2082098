// Package logging provides structured logging utilities for the recipe tooling.
//
// # Overview
//
// This package wraps the standard library slog package with project defaults:
// JSON output to stderr, module/version attributes on every record, source
// locations at debug level, and LOG_LEVEL based configuration.
//
// # Usage
//
// Setting the default logger early in main:
//
//	func main() {
//	    logging.SetDefaultStructuredLoggerWithLevel("rtosrecipe", version, "info")
//	    slog.Info("resolving port", "arch", "thumbv7em")
//	}
//
// Carrying a per-build logger through a context:
//
//	logger := slog.Default().With("build_id", id)
//	ctx = logging.WithLogger(ctx, logger)
//	logging.FromContext(ctx).Info("header written", "path", path)
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls logging verbosity when no
// explicit level is supplied:
//
//	LOG_LEVEL=debug rtosrecipe build --arch thumbv7em --processor cortex-m4
//
// Supported levels (case-insensitive): debug, info (default), warn/warning, error.
//
// # Output Format
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "port resolved",
//	    "module": "rtosrecipe",
//	    "version": "v1.0.0",
//	    "port": "ARM_CM4F"
//	}
package logging
