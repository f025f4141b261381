// Package logging provides structured logging for zpnet.
//
// This package wraps a zap logger with convenience functions. Logging is
// silent by default so that the curated report written to stdout stays
// clean; set ZPNET_LOG_LEVEL (or pass --log-level) to "debug", "info",
// "warn" or "error" to see what happened behind a field that came back
// empty. Log output goes to stderr.
//
// # Structured Logging
//
//	logging.Debug("Neighbor cache unavailable",
//	    zap.String("source", "/proc/net/arp"),
//	    zap.Error(err),
//	)
//
// # Specialized Logging
//
//	logging.LogRequest(ip, "status/perf", elapsed, err)
//	logging.LogFieldUnavailable(ip, "chsnk_score", "histogram sum is zero")
package logging
