// Package logger provides structured logging for datakit using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields. Containers log every
// operation at debug level under the "data" component; algorithm runs log
// each step under the "algorithm" component.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("data")
//	log.Debug("map", logger.Fields("items", 3))
package logger
