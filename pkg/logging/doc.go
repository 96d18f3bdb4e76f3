// Package logging provides subsystem-tagged structured logging for
// authenticator, built on the standard slog package.
//
// Every entry carries a "subsystem" attribute (Interceptor, Surface, Config,
// CLI) so output can be filtered per component. Errors passed to Error are
// attached as an "error" attribute.
//
// # Usage
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Config", "Loaded configuration from %s", path)
//	logging.Debug("Surface", "listening on %s", addr)
//	logging.Error("CLI", err, "authentication did not complete")
//
// Nothing is written before InitForCLI is called, which keeps library use and
// tests quiet by default.
//
// # Secrets
//
// Access tokens must never be logged verbatim; use TruncateToken.
package logging
