// Package logging provides structured logging using uber/zap.
//
// This package offers production-ready logging with two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Constructors never fail at the call site: NewDefault and NewDevelopment
// fall back to a no-op logger, so logging can never take the service down.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Server starting", zap.String("port", "8000"))
//	logger.Error("Failed to spawn shell", zap.Error(err))
package logging
