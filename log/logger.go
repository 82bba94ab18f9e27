package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is a small leveled logger for library use: construction picks
// the sinks once, emitting never exits the process, and named
// sub-loggers share the parent's writer.
type Logger struct {
	writer io.Writer

	name       string
	level      LogLevel
	timeFormat string
	json       bool
	color      bool
}

// Rotation configures the size-based rotation of a file sink.
type Rotation struct {
	MaxSize    int // megabytes before rotation
	MaxBackups int // rotated files to keep
	MaxAge     int // days to keep rotated files
	Compress   bool
}

type options struct {
	level      LogLevel
	timeFormat string
	json       bool
	noColor    bool
	sinks      []io.Writer
}

// Option configures a Logger at construction time.
type Option func(*options)

// WithLevel sets the minimum emitted level.
func WithLevel(level LogLevel) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithJSON switches output to one JSON object per entry.
func WithJSON() Option {
	return func(o *options) {
		o.json = true
	}
}

// WithTimeFormat overrides the timestamp layout.
func WithTimeFormat(layout string) Option {
	return func(o *options) {
		o.timeFormat = layout
	}
}

// WithoutColor disables terminal colors.
func WithoutColor() Option {
	return func(o *options) {
		o.noColor = true
	}
}

// WithFile adds a rotating file sink, replacing the default terminal.
func WithFile(path string, rotation Rotation) Option {
	return func(o *options) {
		if rotation.MaxSize == 0 {
			rotation.MaxSize = 128
		}

		o.sinks = append(o.sinks, &lumberjack.Logger{
			Filename:   path,
			MaxSize:    rotation.MaxSize,
			MaxBackups: rotation.MaxBackups,
			MaxAge:     rotation.MaxAge,
			Compress:   rotation.Compress,
		})
	}
}

// WithWriter adds an arbitrary sink, replacing the default terminal.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.sinks = append(o.sinks, w)
	}
}

// New builds a logger writing to stdout unless sink options replace
// it. Colors only apply to the default terminal sink.
func New(name string, opts ...Option) *Logger {
	o := &options{
		level:      Info,
		timeFormat: "2006-01-02 15:04:05",
	}
	for _, opt := range opts {
		opt(o)
	}

	l := &Logger{
		name:       name,
		level:      o.level,
		timeFormat: o.timeFormat,
		json:       o.json,
	}

	switch len(o.sinks) {
	case 0:
		l.writer = os.Stdout
		l.color = !o.noColor && !o.json
	case 1:
		l.writer = o.sinks[0]
	default:
		l.writer = io.MultiWriter(o.sinks...)
	}

	return l
}

// Discard returns a logger that drops every entry. Used as the
// default so library callers never pay for logging they did not ask
// for.
func Discard() *Logger {
	return &Logger{
		writer: io.Discard,
		level:  Error + 1,
	}
}

// Named returns a sub-logger sharing the writer under a slash-joined
// name.
func (l *Logger) Named(name string) *Logger {
	sub := *l
	if l.name != "" {
		sub.name = l.name + "/" + name
	} else {
		sub.name = name
	}

	return &sub
}

type logEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Service   string `json:"service,omitempty"`
	Message   string `json:"message"`
}

func (l *Logger) log(level LogLevel, msg string, args ...any) {
	if level < l.level {
		return
	}

	timestamp := time.Now().Format(l.timeFormat)
	formatted := fmt.Sprintf(msg, args...)

	if l.json {
		entry := logEntry{
			Timestamp: timestamp,
			Level:     level.String(),
			Service:   l.name,
			Message:   formatted,
		}

		raw, _ := json.Marshal(entry)
		fmt.Fprintf(l.writer, "%s\n", raw)
		return
	}

	prefix := fmt.Sprintf("[%s] %-5s", timestamp, level)
	if l.name != "" {
		prefix = fmt.Sprintf("%s [%s]", prefix, l.name)
	}

	if l.color {
		fmt.Fprintf(l.writer, "%s%s %s\033[0m\n", Color(level), prefix, formatted)
	} else {
		fmt.Fprintf(l.writer, "%s %s\n", prefix, formatted)
	}
}

func (l *Logger) Debug(msg string, args ...any) {
	l.log(Debug, msg, args...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.log(Info, msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.log(Warn, msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.log(Error, msg, args...)
}
