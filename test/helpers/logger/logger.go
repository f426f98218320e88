// Package logger provides loggers for tests.
package logger

import (
	"io"

	"github.com/delegat/stackdeploy/pkg/log"
)

// CreateLogger returns a logger that discards its output.
func CreateLogger() log.Logger {
	return CreateLoggerWithWriter(io.Discard)
}

// CreateLoggerWithWriter returns a trace level logger writing plain text to w.
func CreateLoggerWithWriter(w io.Writer) log.Logger {
	return log.New(log.WithOutput(w), log.WithLevel(log.TraceLevel))
}
