// Package logger builds log/slog loggers from environment configuration and
// provides a small set of attribute helpers shared across the module.
//
// Loggers are constructed once at startup and injected into components that
// log; nothing in this module reaches for a global logger.
//
//	log := logger.NewFromConfig(cfg, logger.WithAttr(slog.String("app", "authcore")))
//	log.Info("store connected", logger.Component("session"))
package logger
