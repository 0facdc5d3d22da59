// Package logger defines the structured logging interface used throughout the
// service. The production implementation lives in
// internal/infrastructure/monitoring and is backed by zap; this package keeps
// the domain and application layers free of a direct zap dependency.
package logger

import (
	"context"
	"time"
)

// Logger is the structured logging contract.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...Field)
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, err error, fields ...Field)
	Fatal(ctx context.Context, msg string, err error, fields ...Field)

	// WithComponent returns a logger scoped to a named component.
	WithComponent(component string) Logger

	// WithFields returns a logger that attaches fields to every entry.
	WithFields(fields ...Field) Logger
}

// Field is a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

func String(key, value string) Field        { return Field{Key: key, Value: value} }
func Int(key string, value int) Field       { return Field{Key: key, Value: value} }
func Int64(key string, value int64) Field   { return Field{Key: key, Value: value} }
func Bool(key string, value bool) Field     { return Field{Key: key, Value: value} }
func Any(key string, value interface{}) Field { return Field{Key: key, Value: value} }

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Time(key string, value time.Time) Field {
	return Field{Key: key, Value: value.UTC().Format(time.RFC3339)}
}

// Err builds the conventional error field.
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// ================================================================================
// No-op implementation
// ================================================================================

type nopLogger struct{}

// NewNop returns a logger that discards everything. Used in tests and as a
// safe default before configuration is loaded.
func NewNop() Logger { return nopLogger{} }

func (nopLogger) Debug(context.Context, string, ...Field)        {}
func (nopLogger) Info(context.Context, string, ...Field)         {}
func (nopLogger) Warn(context.Context, string, ...Field)         {}
func (nopLogger) Error(context.Context, string, error, ...Field) {}
func (nopLogger) Fatal(context.Context, string, error, ...Field) {}
func (n nopLogger) WithComponent(string) Logger                  { return n }
func (n nopLogger) WithFields(...Field) Logger                   { return n }
