// Package logger provides structured logging for marketgate components
// using zerolog.
//
// It supports JSON and console output formats, log level configuration,
// and component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("gate")
//	log.Info("request completed", logger.Fields("dependency", "reservoir"))
package logger
