// Package logging provides structured logging for the rtl-433 tools.
//
// It wraps a zap logger with package-level helpers. Decode failures
// are expected outcomes of noisy reception, so decode cores log them
// at debug level only; warnings and errors are reserved for
// operational faults (I/O, broker connectivity, configuration).
//
// # Configuration
//
// Logging is silent by default. Set the RTL433_LOG_LEVEL environment
// variable (debug, info, warn, error) or call Initialize with an
// explicit level:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use.
package logging
