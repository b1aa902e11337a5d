// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Every component accepts a *Logger and tolerates nil through OrNop, so tests
// can construct components without wiring logging.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Reminder scheduled", zap.Int64("reminder_id", id))
//	logger.Error("Launch failed", zap.String("app", name), zap.Error(err))
package logging
