package logger

import (
	"context"
	"fmt"
	multi "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
)

const (
	LevelTrace = slog.Level(-8)
	LevelFatal = slog.Level(12)
)

var levelNames = map[slog.Leveler]string{
	LevelTrace: "TRACE",
	LevelFatal: "FATAL",
}

type Logger interface {
	SetLogLevel(levelStr string)
	GetLogLevel() string

	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, err error, args ...any)
	Fatal(msg string, err error, args ...any)
}

type SlogLogger struct {
	log   *slog.Logger
	level *slog.LevelVar
	exit  func(code int)
}

// New builds the default logger: human readable text on stdout and rotated JSON
// in filePath. An empty filePath disables the file sink.
func New(filePath string) *SlogLogger {
	l := &SlogLogger{level: &slog.LevelVar{}, exit: os.Exit}
	l.level.Set(slog.LevelInfo)

	opts := l.handlerOptions(true)
	handlers := []slog.Handler{slog.NewTextHandler(os.Stdout, opts)}
	if filePath != "" {
		handlers = append(handlers, slog.NewJSONHandler(&lumberjack.Logger{
			Filename:   filePath,
			MaxSize:    32,
			MaxBackups: 8,
			MaxAge:     14,
			Compress:   true,
		}, opts))
	}

	l.log = slog.New(multi.Fanout(handlers...))
	return l
}

// NewWriter logs text records into w only. Used by tests and tooling.
func NewWriter(w io.Writer) *SlogLogger {
	l := &SlogLogger{level: &slog.LevelVar{}, exit: func(int) {}}
	l.level.Set(LevelTrace)
	l.log = slog.New(slog.NewTextHandler(w, l.handlerOptions(false)))
	return l
}

func NewNop() *SlogLogger {
	return NewWriter(io.Discard)
}

func (l *SlogLogger) handlerOptions(withSource bool) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		AddSource: withSource,
		Level:     l.level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.LevelKey:
				level, ok := a.Value.Any().(slog.Level)
				if !ok {
					return a
				}
				label, exists := levelNames[level]
				if !exists {
					label = level.String()
				}
				a.Value = slog.StringValue(label)
			case slog.SourceKey:
				a.Value = slog.StringValue(callerOutsideLogger(6))
			}
			return a
		},
	}
}

func (l *SlogLogger) SetLogLevel(levelStr string) {
	switch levelStr {
	case "trace":
		l.level.Set(LevelTrace)
	case "debug":
		l.level.Set(slog.LevelDebug)
	case "warn":
		l.level.Set(slog.LevelWarn)
	case "error":
		l.level.Set(slog.LevelError)
	case "fatal":
		l.level.Set(LevelFatal)
	default:
		l.level.Set(slog.LevelInfo)
	}
}

func (l *SlogLogger) GetLogLevel() string {
	switch l.level.Level() {
	case LevelTrace:
		return "trace"
	case slog.LevelDebug:
		return "debug"
	case slog.LevelWarn:
		return "warn"
	case slog.LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	}

	return "info"
}

func (l *SlogLogger) Trace(msg string, args ...any) {
	l.log.Log(context.Background(), LevelTrace, msg, args...)
}

func (l *SlogLogger) Debug(msg string, args ...any) {
	l.log.Debug(msg, args...)
}

func (l *SlogLogger) Info(msg string, args ...any) {
	l.log.Info(msg, args...)
}

func (l *SlogLogger) Warn(msg string, args ...any) {
	l.log.Warn(msg, args...)
}

func (l *SlogLogger) Error(msg string, err error, args ...any) {
	l.log.Error(msg, withError(err, args)...)
}

func (l *SlogLogger) Fatal(msg string, err error, args ...any) {
	l.log.Log(context.Background(), LevelFatal, msg, withError(err, args)...)
	l.exit(1)
}

func withError(err error, args []any) []any {
	if err == nil {
		return args
	}
	return append([]any{slog.String("error", err.Error())}, args...)
}

func callerOutsideLogger(skip int) string {
	for i := skip; ; i++ {
		_, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		if !strings.Contains(file, "pkg/logger") && !strings.Contains(file, "log/slog") && !strings.Contains(file, "slog-multi") {
			return fmt.Sprintf("%s:%d", file, line)
		}
	}
	return "unknown"
}
