package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

var (
	// DefaultLogger is used by parsers that are not given a logger explicitly.
	DefaultLogger Logger = NewLogrus(newStdLogrus())
)

const (
	// LevelAll enables all logs.
	LevelAll = iota
	// LevelDebug logs are usually disabled in production.
	LevelDebug
	// LevelInfo is the default logging priority.
	LevelInfo
	// LevelWarn .
	LevelWarn
	// LevelError .
	LevelError
	// LevelNone disables all logs.
	LevelNone
)

// Logger defines log interface.
type Logger interface {
	SetLevel(lvl int)
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// SetLogger sets default logger.
func SetLogger(l Logger) {
	DefaultLogger = l
}

// SetLevel sets default logger's priority.
func SetLevel(lvl int) {
	DefaultLogger.SetLevel(lvl)
}

// Debug uses DefaultLogger to log a message at LevelDebug.
func Debug(format string, v ...interface{}) {
	DefaultLogger.Debug(format, v...)
}

// Info uses DefaultLogger to log a message at LevelInfo.
func Info(format string, v ...interface{}) {
	DefaultLogger.Info(format, v...)
}

// Warn uses DefaultLogger to log a message at LevelWarn.
func Warn(format string, v ...interface{}) {
	DefaultLogger.Warn(format, v...)
}

// Error uses DefaultLogger to log a message at LevelError.
func Error(format string, v ...interface{}) {
	DefaultLogger.Error(format, v...)
}

func newStdLogrus() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	return l
}

type logrusLogger struct {
	base  *logrus.Logger
	entry *logrus.Entry
}

// NewLogrus wraps l. Every entry carries the field component=formfeed.
func NewLogrus(l *logrus.Logger) Logger {
	return &logrusLogger{
		base:  l,
		entry: l.WithField("component", "formfeed"),
	}
}

// SetLevel maps lvl onto the logrus levels. Unknown levels are reported and ignored.
func (l *logrusLogger) SetLevel(lvl int) {
	switch lvl {
	case LevelAll:
		l.base.SetLevel(logrus.TraceLevel)
	case LevelDebug:
		l.base.SetLevel(logrus.DebugLevel)
	case LevelInfo:
		l.base.SetLevel(logrus.InfoLevel)
	case LevelWarn:
		l.base.SetLevel(logrus.WarnLevel)
	case LevelError:
		l.base.SetLevel(logrus.ErrorLevel)
	case LevelNone:
		l.base.SetOutput(io.Discard)
		l.base.SetLevel(logrus.PanicLevel)
	default:
		l.entry.Warnf("invalid log level: %v", lvl)
	}
}

func (l *logrusLogger) Debug(format string, v ...interface{}) {
	l.entry.Debugf(format, v...)
}

func (l *logrusLogger) Info(format string, v ...interface{}) {
	l.entry.Infof(format, v...)
}

func (l *logrusLogger) Warn(format string, v ...interface{}) {
	l.entry.Warnf(format, v...)
}

func (l *logrusLogger) Error(format string, v ...interface{}) {
	l.entry.Errorf(format, v...)
}

// Nop discards everything.
var Nop Logger = nopLogger{}

type nopLogger struct{}

func (nopLogger) SetLevel(int) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{}) {}
func (nopLogger) Error(string, ...interface{}) {}
