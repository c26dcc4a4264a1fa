// Package logger provides structured logging for pageforge using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logger:
//	  level: "info"
//	  format: "console"
//
// # Usage
//
//	log := logger.NewDefault("pageforge").WithComponent("segmenter")
//	log.Info("sections identified", logger.Fields("count", 3))
package logger
