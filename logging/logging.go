// Package logging owns the process-wide logger. Packages that log take a
// logrus.FieldLogger option and fall back to L() when none is given.
package logging

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Options configures New.
type Options struct {
	// Level is a logrus level name ("trace", "debug", "info", ...).
	// Empty means info.
	Level string
	// Output defaults to stdout.
	Output io.Writer
}

var current atomic.Value

func init() {
	current.Store(logrus.StandardLogger())
}

// New builds a logger writing logfmt lines with a wall-clock timestamp:
//
//	time="15:04:05" level=info msg="Window created: 800x600"
func New(opts Options) (*logrus.Logger, error) {
	level := logrus.InfoLevel
	if opts.Level != "" {
		var err error
		level, err = logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, err
		}
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})
	return logger, nil
}

// Init builds a logger with New and installs it as the process-wide default.
func Init(opts Options) (*logrus.Logger, error) {
	logger, err := New(opts)
	if err != nil {
		return nil, err
	}
	Set(logger)
	return logger, nil
}

// Set replaces the process-wide logger. A nil logger restores the logrus
// standard logger.
func Set(logger *logrus.Logger) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	current.Store(logger)
}

// L returns the process-wide logger.
func L() *logrus.Logger {
	return current.Load().(*logrus.Logger)
}

// Or returns logger, or the process-wide logger when logger is nil.
func Or(logger logrus.FieldLogger) logrus.FieldLogger {
	if logger == nil {
		return L()
	}
	return logger
}

type leveledLogger interface {
	Log(level logrus.Level, args ...interface{})
}

// Critical logs at fatal severity without exiting; the caller decides the
// process exit status.
func Critical(logger logrus.FieldLogger, args ...interface{}) {
	if l, ok := logger.(leveledLogger); ok {
		l.Log(logrus.FatalLevel, args...)
		return
	}
	logger.Error(args...)
}

// Criticalf is Critical with a format string.
func Criticalf(logger logrus.FieldLogger, format string, args ...interface{}) {
	if l, ok := logger.(interface {
		Logf(level logrus.Level, format string, args ...interface{})
	}); ok {
		l.Logf(logrus.FatalLevel, format, args...)
		return
	}
	logger.Errorf(format, args...)
}
