// Package runlog implements the per-run automation log: one
// `[timestamp] [LEVEL] message` line per event, written to the log file
// and mirrored to stdout. The log file is truncated with a banner at the
// start of every run, so at most one run's log survives at a time.
//
// The logger is constructed once per run and passed into the pipeline
// stages explicitly, which keeps the stages testable without filesystem
// side effects.
package runlog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const timeLayout = "2006-01-02 15:04:05"

// tagField overrides the printed level token for the SUCCESS and UPDATE
// pseudo-levels, which logrus does not model.
const tagField = "tag"

type lineFormatter struct{}

func (lineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	level := strings.ToUpper(e.Level.String())
	if level == "WARNING" {
		level = "WARN"
	}
	if tag, ok := e.Data[tagField].(string); ok {
		level = tag
	}
	return []byte(fmt.Sprintf("[%s] [%s] %s\n", e.Time.Format(timeLayout), level, e.Message)), nil
}

// Logger appends bracketed log lines to every sink it was built with.
type Logger struct {
	l *logrus.Logger
}

// New returns a Logger writing to the given sinks.
func New(sinks ...io.Writer) *Logger {
	l := logrus.New()
	l.SetOutput(io.MultiWriter(sinks...))
	l.SetFormatter(lineFormatter{})
	l.SetLevel(logrus.InfoLevel)
	return &Logger{l: l}
}

// Discard returns a Logger that drops everything. Handy as a default in
// tests.
func Discard() *Logger {
	return New(io.Discard)
}

// Open truncates the log file at path, writes the run banner to it, and
// returns a Logger mirrored to the file and stdout. The caller closes
// the returned file when the run ends.
func Open(path, banner string) (*Logger, *os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open run log: %w", err)
	}
	if _, err := fmt.Fprintf(f, "--- %s: %s ---\n", banner, time.Now().Format(timeLayout)); err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("write banner: %w", err)
	}
	return New(f, os.Stdout), f, nil
}

func (g *Logger) Infof(format string, args ...interface{}) {
	g.l.Infof(format, args...)
}

func (g *Logger) Warnf(format string, args ...interface{}) {
	g.l.Warnf(format, args...)
}

func (g *Logger) Errorf(format string, args ...interface{}) {
	g.l.Errorf(format, args...)
}

// Successf logs at INFO severity with a SUCCESS level token.
func (g *Logger) Successf(format string, args ...interface{}) {
	g.l.WithField(tagField, "SUCCESS").Infof(format, args...)
}

// Updatef logs at INFO severity with an UPDATE level token.
func (g *Logger) Updatef(format string, args ...interface{}) {
	g.l.WithField(tagField, "UPDATE").Infof(format, args...)
}
