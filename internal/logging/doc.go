// Package logging provides structured logging for memoryd.
//
// # Overview
//
// The package wraps Zap with:
//   - Context-aware logging methods (automatic correlation fields)
//   - Automatic trace/span ID injection from OpenTelemetry
//   - Session and turn correlation from context
//   - Console or JSON output selected by config
//
// # Usage
//
//	logger, err := logging.NewLogger(logging.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
//	ctx = logging.WithSessionID(ctx, "sess_123")
//	logger.Info(ctx, "turn completed", zap.Int("statuses", n))
package logging
