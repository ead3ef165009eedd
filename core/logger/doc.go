// Package logger builds the zap logger shared by commands, services and handlers.
//
// Level "debug" selects zap's development preset, anything else the production
// preset. Format picks console or json encoding.
//
//	log, _ := logger.New(&cfg.Log)
//	log.Info("Import loaded", zap.Int("groups", n))
//
// Inside a Fiber handler, WithRayID tags entries with the request's ray id:
//
//	logger.WithRayID(log, c).Warn("Commit failed", zap.Error(err))
package logger
