package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"billtrack/internal/errors"

	"github.com/sirupsen/logrus"
)

var (
	isDebug = false
	logger  = NewLogger()
)

// Field is a single structured key/value pair.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logging is the interface components accept so tests can inject a buffer-backed logger.
type Logging interface {
	Debug(msg string, args ...interface{})
	Debugf(format string, args ...interface{})
	Info(msg string, args ...interface{})
	Infof(format string, args ...interface{})
	Warn(msg string, args ...interface{})
	Warnf(format string, args ...interface{})
	Error(msg string, args ...interface{})
	Errorf(format string, args ...interface{})
	With(fields ...Field) Logging
}

// Logger wraps a logrus entry.
type Logger struct {
	entry *logrus.Entry
	file  *os.File
}

// Option configures a Logger.
type Option func(*options)

type options struct {
	out      io.Writer
	json     bool
	filePath string
}

// WithOutput sets the destination writer.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithJSON switches to JSON lines.
func WithJSON() Option {
	return func(o *options) { o.json = true }
}

// WithFile tees output into the given file in addition to the writer.
func WithFile(path string) Option {
	return func(o *options) { o.filePath = path }
}

// NewLogger creates a logger. Output defaults to stdout in text format.
func NewLogger(opts ...Option) *Logger {
	o := &options{out: os.Stdout}
	for _, opt := range opts {
		opt(o)
	}

	base := logrus.New()
	base.SetLevel(logrus.DebugLevel)
	base.SetReportCaller(true)

	var file *os.File
	out := o.out
	if o.filePath != "" {
		if err := os.MkdirAll(filepath.Dir(o.filePath), 0755); err == nil {
			f, err := os.OpenFile(o.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
			if err == nil {
				file = f
				out = io.MultiWriter(o.out, f)
			}
		}
	}
	base.SetOutput(out)

	fieldMap := logrus.FieldMap{
		logrus.FieldKeyTime:  "timestamp",
		logrus.FieldKeyMsg:   "message",
		logrus.FieldKeyFunc:  "func",
		logrus.FieldKeyFile:  "caller",
		logrus.FieldKeyLevel: "level",
	}
	if o.json {
		base.SetFormatter(&logrus.JSONFormatter{
			FieldMap:         fieldMap,
			CallerPrettyfier: prettyCaller,
		})
	} else {
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:    true,
			TimestampFormat:  "2006-01-02 15:04:05",
			DisableColors:    true,
			FieldMap:         fieldMap,
			CallerPrettyfier: prettyCaller,
		})
	}

	return &Logger{entry: logrus.NewEntry(base), file: file}
}

// prettyCaller reports the first frame outside this package and logrus.
func prettyCaller(_ *runtime.Frame) (string, string) {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !isLoggingFrame(frame.File) {
			return "", fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
		}
		if !more {
			return "", ""
		}
	}
}

func isLoggingFrame(file string) bool {
	if strings.Contains(file, "sirupsen/logrus") {
		return true
	}
	return strings.HasSuffix(filepath.Dir(file), "internal/log") && !strings.HasSuffix(file, "_test.go")
}

// Configure replaces the package-level logger.
func Configure(opts ...Option) {
	prev := logger
	logger = NewLogger(opts...)
	if prev != nil {
		prev.Close()
	}
}

// Default returns the package-level logger.
func Default() *Logger {
	return logger
}

// SetDebug toggles debug output globally.
func SetDebug(debug bool) {
	isDebug = debug
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func (l *Logger) With(fields ...Field) Logging {
	data := logrus.Fields{}
	for _, f := range fields {
		data[f.Key] = f.Value
	}
	return &Logger{entry: l.entry.WithFields(data), file: l.file}
}

// WithContext is accepted for call-site symmetry; no context values are extracted yet.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	return &Logger{entry: l.entry.WithContext(ctx), file: l.file}
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	if isDebug {
		l.entry.Debug(format(msg, args))
	}
}

func (l *Logger) Debugf(f string, args ...interface{}) {
	if isDebug {
		l.entry.Debugf(f, args...)
	}
}

func (l *Logger) Info(msg string, args ...interface{}) { l.entry.Info(format(msg, args)) }
func (l *Logger) Infof(f string, args ...interface{}) { l.entry.Infof(f, args...) }
func (l *Logger) Warn(msg string, args ...interface{}) { l.entry.Warn(format(msg, args)) }
func (l *Logger) Warnf(f string, args ...interface{}) { l.entry.Warnf(f, args...) }
func (l *Logger) Error(msg string, args ...interface{}) { l.entry.Error(format(msg, args)) }
func (l *Logger) Errorf(f string, args ...interface{}) { l.entry.Errorf(f, args...) }

// format keeps the printf-style call sites that pass arguments to Info/Debug working.
func format(msg string, args []interface{}) string {
	if len(args) == 0 {
		return msg
	}
	if strings.Contains(msg, "%") {
		return fmt.Sprintf(msg, args...)
	}
	return msg + ": " + fmt.Sprint(args...)
}

// errorFields expands kinded errors into structured fields.
func errorFields(err error) []Field {
	if err == nil {
		return []Field{F("error", "<nil>")}
	}
	fields := []Field{F("error", err.Error()), F("error_kind", int(errors.KindOf(err)))}

	var fileErr *errors.FileError
	if errors.As(err, &fileErr) && fileErr.Path() != "" {
		fields = append(fields, F("path", fileErr.Path()))
	}
	var configErr *errors.ConfigError
	if errors.As(err, &configErr) && configErr.Param() != "" {
		fields = append(fields, F("param", configErr.Param()))
	}
	var dbErr *errors.DatabaseError
	if errors.As(err, &dbErr) && dbErr.Operation() != "" {
		fields = append(fields, F("operation", dbErr.Operation()))
	}
	return fields
}

// WithError attaches an error and its kind details.
func (l *Logger) WithError(err error) Logging {
	return l.With(errorFields(err)...)
}

// LogWithFields returns the global logger carrying fields.
func LogWithFields(fields ...Field) Logging {
	return logger.With(fields...)
}

// LogWithError returns the global logger carrying the error fields.
func LogWithError(err error) Logging {
	return logger.WithError(err)
}

// LogError logs err with msg at error level.
func LogError(err error, msg string) {
	logger.WithError(err).Error(msg)
}

func Debug(msg string, args ...interface{}) { logger.Debug(msg, args...) }
func Debugf(f string, args ...interface{}) { logger.Debugf(f, args...) }
func Info(msg string, args ...interface{}) { logger.Info(msg, args...) }
func Infof(f string, args ...interface{}) { logger.Infof(f, args...) }
func Warn(msg string, args ...interface{}) { logger.Warn(msg, args...) }
func Warnf(f string, args ...interface{}) { logger.Warnf(f, args...) }
func Error(msg string, args ...interface{}) { logger.Error(msg, args...) }
func Errorf(f string, args ...interface{}) { logger.Errorf(f, args...) }
