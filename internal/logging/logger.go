package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

const timeLayout = "2006-01-02 15:04:05"

// Options selects the verbosity of a Logger.
type Options struct {
	Verbose bool
	Quiet   bool
	Debug   bool
}

// Logger is a leveled logger with optional verbose output and lightweight
// timing helpers. The zero value discards everything.
type Logger struct {
	base    *logrus.Logger
	Verbose bool
	Quiet   bool
}

func New(writer io.Writer, opts Options) Logger {
	base := logrus.New()
	base.SetOutput(writer)
	base.SetFormatter(lineFormatter{})
	base.SetLevel(levelFor(opts))
	return Logger{
		base:    base,
		Verbose: opts.Verbose && !opts.Quiet,
		Quiet:   opts.Quiet,
	}
}

func levelFor(opts Options) logrus.Level {
	switch {
	case opts.Debug:
		return logrus.DebugLevel
	case opts.Quiet:
		return logrus.WarnLevel
	default:
		return logrus.InfoLevel
	}
}

// SetOutput redirects every copy of the logger to w.
func (l Logger) SetOutput(w io.Writer) {
	if l.base == nil {
		return
	}
	l.base.SetOutput(w)
}

// Writer returns the stream log lines are written to.
func (l Logger) Writer() io.Writer {
	if l.base == nil {
		return io.Discard
	}
	return l.base.Out
}

func (l Logger) Debugf(format string, args ...any) {
	if l.base == nil {
		return
	}
	l.base.Debugf(format, args...)
}

func (l Logger) Infof(format string, args ...any) {
	if l.base == nil {
		return
	}
	l.base.Infof(format, args...)
}

func (l Logger) Warnf(format string, args ...any) {
	if l.base == nil {
		return
	}
	l.base.Warnf(format, args...)
}

func (l Logger) Errorf(format string, args ...any) {
	if l.base == nil {
		return
	}
	l.base.Errorf(format, args...)
}

func (l Logger) Verbosef(format string, args ...any) {
	if !l.Verbose {
		return
	}
	l.Infof(format, args...)
}

// Measure returns a stop function that logs the elapsed time when called.
func (l Logger) Measure(label string) func() {
	if !l.Verbose {
		return func() {}
	}
	start := time.Now()
	return func() {
		elapsed := time.Since(start).Round(time.Millisecond)
		l.Verbosef("%s took %s", label, elapsed)
	}
}

// OpenFile opens path for appending, creating its parent directories.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// lineFormatter renders "LEVEL 2006-01-02 15:04:05: message".
type lineFormatter struct{}

func (lineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%s %s: %s\n", severity(entry.Level), entry.Time.Format(timeLayout), entry.Message)
	return b.Bytes(), nil
}

func severity(level logrus.Level) string {
	switch level {
	case logrus.TraceLevel, logrus.DebugLevel:
		return "DEBUG"
	case logrus.InfoLevel:
		return "INFO"
	case logrus.WarnLevel:
		return "WARN"
	case logrus.ErrorLevel:
		return "ERROR"
	default:
		return "FATAL"
	}
}
