// Package logger builds the zap logger used across the service.
//
// Level selects the minimum level; "debug" also switches to zap's
// development preset. Format picks json or colored console output.
//
// WithRayID attaches the request's ray id, stored in the Fiber locals by the
// rayid middleware, so every log line of a request can be correlated.
//
//	log, err := logger.New(&cfg.Log)
//	l := logger.WithRayID(log, c)
//	l.Error("Manual flush failed", zap.Error(err))
package logger
