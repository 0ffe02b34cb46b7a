package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger writes JSON log lines tagged with service and hostname.
type Logger struct {
	service  string
	hostname string
	handler  *slog.Logger
}

// NewLogger creates a new Logger writing to stdout.
func NewLogger(service string, debug bool) *Logger {
	return New(os.Stdout, service, debug)
}

// New creates a new Logger writing to w.
func New(w io.Writer, service string, debug bool) *Logger {
	hostname, _ := os.Hostname()

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))

	return &Logger{
		service:  service,
		hostname: hostname,
		handler:  handler,
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return New(io.Discard, "nop", false)
}

func (l *Logger) log(level slog.Level, action, requestID, message string, attrs []slog.Attr) {
	base := []slog.Attr{
		slog.String("service", l.service),
		slog.String("hostname", l.hostname),
		slog.String("action", action),
	}
	if requestID != "" {
		base = append(base, slog.String("request_id", requestID))
	}
	l.handler.LogAttrs(context.Background(), level, message, append(base, attrs...)...)
}

func (l *Logger) Info(action, requestID, message string, attrs ...slog.Attr) {
	l.log(slog.LevelInfo, action, requestID, message, attrs)
}

func (l *Logger) Debug(action, requestID, message string, attrs ...slog.Attr) {
	l.log(slog.LevelDebug, action, requestID, message, attrs)
}

func (l *Logger) Warn(action, requestID, message string, attrs ...slog.Attr) {
	l.log(slog.LevelWarn, action, requestID, message, attrs)
}

func (l *Logger) Error(action, requestID, message string, err error, attrs ...slog.Attr) {
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	l.log(slog.LevelError, action, requestID, message, attrs)
}
