package lumber

import (
	"github.com/testdeck/testdeck/pkg/errors"
)

// A global variable so that log functions can be directly accessed
var log Logger

// Fields Type to pass when we want to call WithFields for structured logging
type Fields map[string]interface{}

const (
	// Debug has verbose message
	Debug = "debug"
	// Info is default log level
	Info = "info"
	// Warn is for logging messages about possible issues
	Warn = "warn"
	// Error is for logging errors
	Error = "error"
	// Fatal is for logging fatal messages. The system shutsdown after logging the message.
	Fatal = "fatal"
)

const (
	// InstanceZapLogger zap logger instance
	InstanceZapLogger int = iota
	// InstanceLogrusLogger logrus logger instance
	InstanceLogrusLogger
)

// Logger is our contract for the logger
type Logger interface {
	Debugf(format string, args ...interface{})

	Infof(format string, args ...interface{})

	Warnf(format string, args ...interface{})

	Errorf(format string, args ...interface{})

	Fatalf(format string, args ...interface{})

	Panicf(format string, args ...interface{})

	WithFields(keyValues Fields) Logger
}

// LoggingConfig stores the config for the logger
// For some loggers there can only be one level across writers, for such the level of Console is picked by default
type LoggingConfig struct {
	EnableConsole     bool
	ConsoleJSONFormat bool
	ConsoleLevel      string
	EnableFile        bool
	FileJSONFormat    bool
	FileLevel         string
	FileLocation      string
}

// NewLogger returns an instance of logger
func NewLogger(config *LoggingConfig, verbose bool, loggerInstance int) (Logger, error) {
	if verbose {
		config.ConsoleLevel = Debug
		config.FileLevel = Debug
	}
	if config.ConsoleLevel == "" {
		config.ConsoleLevel = Info
	}
	if config.FileLevel == "" {
		config.FileLevel = Info
	}
	switch loggerInstance {
	case InstanceZapLogger:
		logger, err := newZapLogger(config)
		if err != nil {
			return nil, err
		}
		log = logger
		return logger, nil

	case InstanceLogrusLogger:
		logger, err := newLogrusLogger(config)
		if err != nil {
			return nil, err
		}
		log = logger
		return logger, nil

	default:
		return nil, errors.ErrInvalidLoggerInstance
	}
}

// Debugf logs a debug message
func Debugf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// Infof logs an info message
func Infof(format string, args ...interface{}) {
	log.Infof(format, args...)
}

// Warnf logs a warning message
func Warnf(format string, args ...interface{}) {
	log.Warnf(format, args...)
}

// Errorf logs an error message
func Errorf(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

// Fatalf logs a fatal message and exits
func Fatalf(format string, args ...interface{}) {
	log.Fatalf(format, args...)
}

// WithFields adds fixed fields to the logging context
func WithFields(keyValues Fields) Logger {
	return log.WithFields(keyValues)
}
