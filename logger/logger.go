// Package logger provides structured logging for the folding engine and its
// command-line front end, backed by logrus.
package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the logging surface used across the module.
type Logger interface {
	Debug(message string, fields ...Field)
	Info(message string, fields ...Field)
	Warn(message string, fields ...Field)
	Error(message string, fields ...Field)
	// With returns a child logger that adds fields to every entry.
	With(fields ...Field) Logger
}

// Field represents a structured logging field.
type Field struct {
	Key   string
	Value interface{}
}

// WithField creates a new field.
func WithField(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Options configures New.
type Options struct {
	// Level is a logrus level name (debug, info, warn, error). Unknown names fall back to info.
	Level string
	// File, when set, receives a copy of every entry through a rotating writer.
	File string
	// MaxSizeMB and MaxBackups tune file rotation. Zero means lumberjack defaults.
	MaxSizeMB  int
	MaxBackups int
	// NoColor disables ANSI colours on the console.
	NoColor bool
	// Output overrides the console writer (default os.Stderr).
	Output io.Writer
}

type logrusLogger struct {
	entry *logrus.Entry
}

// New builds a logrus-backed Logger.
func New(opts Options) Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&ConsoleFormatter{
		TimestampFormat: "15:04:05",
		DisableColors:   opts.NoColor,
	})

	var out io.Writer = os.Stderr
	if opts.Output != nil {
		out = opts.Output
	}
	if opts.File != "" {
		out = io.MultiWriter(out, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			Compress:   true,
		})
	}
	log.SetOutput(out)

	return &logrusLogger{entry: logrus.NewEntry(log)}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetLevel(logrus.PanicLevel)

	return &logrusLogger{entry: logrus.NewEntry(log)}
}

func toFields(fields []Field) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for _, f := range fields {
		out[f.Key] = f.Value
	}

	return out
}

func (l *logrusLogger) Debug(message string, fields ...Field) {
	l.entry.WithFields(toFields(fields)).Debug(message)
}

func (l *logrusLogger) Info(message string, fields ...Field) {
	l.entry.WithFields(toFields(fields)).Info(message)
}

func (l *logrusLogger) Warn(message string, fields ...Field) {
	l.entry.WithFields(toFields(fields)).Warn(message)
}

func (l *logrusLogger) Error(message string, fields ...Field) {
	l.entry.WithFields(toFields(fields)).Error(message)
}

func (l *logrusLogger) With(fields ...Field) Logger {
	return &logrusLogger{entry: l.entry.WithFields(toFields(fields))}
}

// ConsoleFormatter renders "[time] LEVEL: message {k=v, ...}" with optional colours.
// Fields are printed in key order so output is stable.
type ConsoleFormatter struct {
	TimestampFormat string
	DisableColors   bool
}

// Format implements logrus.Formatter.
func (f *ConsoleFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var (
		levelColor *color.Color
		levelText  string
	)
	switch entry.Level {
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		levelColor = color.New(color.FgRed, color.Bold)
		levelText = "ERROR"
	case logrus.WarnLevel:
		levelColor = color.New(color.FgYellow, color.Bold)
		levelText = "WARN"
	case logrus.DebugLevel, logrus.TraceLevel:
		levelColor = color.New(color.FgWhite, color.Faint)
		levelText = "DEBUG"
	default:
		levelColor = color.New(color.FgCyan)
		levelText = "INFO"
	}

	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(entry.Time.Format(f.TimestampFormat))
	sb.WriteString("] ")
	if f.DisableColors {
		sb.WriteString(levelText)
	} else {
		sb.WriteString(levelColor.Sprint(levelText))
	}
	sb.WriteString(": ")
	sb.WriteString(entry.Message)

	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for k := range entry.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s=%v", k, entry.Data[k])
		}
		fields := " {" + strings.Join(parts, ", ") + "}"
		if f.DisableColors {
			sb.WriteString(fields)
		} else {
			sb.WriteString(color.New(color.FgWhite, color.Faint).Sprint(fields))
		}
	}
	sb.WriteString("\n")

	return []byte(sb.String()), nil
}
