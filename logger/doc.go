// Package logger provides structured logging for actionflow using zerolog.
//
// It supports JSON and console output, level configuration and
// component-scoped loggers. Engine code logs with map fields:
//
//	log := logger.WithComponent("scheduler")
//	log.Info("action finished", logger.Fields(logger.FieldAction, "build", logger.FieldStatus, "ok"))
//
// # Configuration
//
//	logger:
//	  level: "info"
//	  format: "json"
package logger
