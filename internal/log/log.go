// Package log defines the structured logging seam the emitter driver
// accepts, mirroring the teacher's lib/log.Modular interface (consumed by
// lib/processor/mongodb.go as log.Modular) but backed directly by
// logrus rather than a bespoke level/format wrapper.
package log

import (
	"github.com/sirupsen/logrus"
)

// Modular is the logging interface the driver (C8) and its collaborators
// are constructed with. It is deliberately small: the emitter logs run
// summaries and cache-drop debug lines, nothing else (spec.md §1, logging is
// an out-of-scope external collaborator).
type Modular interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})

	// WithFields returns a derived logger carrying the given structured
	// fields on every subsequent call, mirroring the teacher's per-component
	// logger scoping (e.g. "@component": "mongodb").
	WithFields(fields map[string]interface{}) Modular
}

// logrusLogger adapts *logrus.Entry to Modular.
type logrusLogger struct {
	entry *logrus.Entry
}

// New returns a Modular backed by a fresh logrus.Logger at Info level.
func New() Modular {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

// Noop returns a Modular that discards everything, for tests and callers
// that don't want emitter log output.
func Noop() Modular {
	l := logrus.New()
	l.SetOutput(noopWriter{})
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

type noopWriter struct{}

func (noopWriter) Write(p []byte) (int, error) { return len(p), nil }

func (l *logrusLogger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *logrusLogger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *logrusLogger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *logrusLogger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

func (l *logrusLogger) WithFields(fields map[string]interface{}) Modular {
	return &logrusLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}
