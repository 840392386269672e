// Package logger provides structured logging built on zerolog.
//
// Loggers carry a service name and optional component tag, and accept fields as
// plain maps so call sites stay free of zerolog types:
//
//	log := logger.Get("di")
//	log.Info("dependencies injected", logger.Fields("count", 3))
package logger
