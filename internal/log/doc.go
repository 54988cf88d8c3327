// Package log provides slog loggers that mask sensitive values.
//
// Crawls send per-site headers from the configuration file and history may
// be stored in a PostgreSQL database reached through a DSN with a password.
// SecureHandler keeps those secrets out of the log output, even at debug
// level:
//   - attributes whose key names a secret (cookie, authorization, dsn, ...)
//   - values that look like tokens (JWT, Bearer, Basic, AWS keys)
//   - the password part of any URL with userinfo
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	logger.Debug("opening history", "dsn", cfg.DatabaseURL) // dsn=***REDACTED***
package log
