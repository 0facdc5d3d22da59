package monitoring

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/perimetra/devscope/internal/config"
	"github.com/perimetra/devscope/pkg/constants"
	"github.com/perimetra/devscope/pkg/logger"
)

// sensitiveKeys are field names whose values are never logged raw.
var sensitiveKeys = []string{"password", "token", "secret", "authorization"}

type zapLogger struct {
	zl    *zap.Logger
	level zap.AtomicLevel
}

// NewZapLogger builds the production logger: JSON to stdout, ISO8601
// timestamps, caller on errors. The returned level handle supports hot
// reload via SetLevel.
func NewZapLogger(cfg *config.LogConfig) (logger.Logger, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	parsed, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		parsed = zapcore.InfoLevel
	}
	level := zap.NewAtomicLevelAt(parsed)

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		level,
	)

	return &zapLogger{
		zl:    zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)),
		level: level,
	}, nil
}

// SetLevel applies a new minimum level; invalid strings are ignored.
func (l *zapLogger) SetLevel(levelName string) {
	parsed, err := zapcore.ParseLevel(levelName)
	if err != nil {
		return
	}
	l.level.SetLevel(parsed)
}

func (l *zapLogger) Debug(ctx context.Context, msg string, fields ...logger.Field) {
	l.zl.Debug(msg, convertFields(ctx, fields)...)
}

func (l *zapLogger) Info(ctx context.Context, msg string, fields ...logger.Field) {
	l.zl.Info(msg, convertFields(ctx, fields)...)
}

func (l *zapLogger) Warn(ctx context.Context, msg string, fields ...logger.Field) {
	l.zl.Warn(msg, convertFields(ctx, fields)...)
}

func (l *zapLogger) Error(ctx context.Context, msg string, err error, fields ...logger.Field) {
	if err != nil {
		fields = append(fields, logger.Err(err))
	}
	l.zl.Error(msg, convertFields(ctx, fields)...)
}

func (l *zapLogger) Fatal(ctx context.Context, msg string, err error, fields ...logger.Field) {
	if err != nil {
		fields = append(fields, logger.Err(err))
	}
	l.zl.Fatal(msg, convertFields(ctx, fields)...)
}

func (l *zapLogger) WithComponent(component string) logger.Logger {
	return &zapLogger{zl: l.zl.With(zap.String("component", component)), level: l.level}
}

func (l *zapLogger) WithFields(fields ...logger.Field) logger.Logger {
	return &zapLogger{zl: l.zl.With(convertFields(context.Background(), fields)...), level: l.level}
}

func convertFields(ctx context.Context, fields []logger.Field) []zap.Field {
	zapFields := make([]zap.Field, 0, len(fields)+2)

	if ctx != nil {
		if requestID, ok := ctx.Value(constants.ContextKeyRequestID).(string); ok {
			zapFields = append(zapFields, zap.String("request_id", requestID))
		}
		if subject, ok := ctx.Value(constants.ContextKeySubject).(string); ok {
			zapFields = append(zapFields, zap.String("subject", subject))
		}
	}

	for _, f := range fields {
		zapFields = append(zapFields, zap.Any(f.Key, sanitize(f.Key, f.Value)))
	}
	return zapFields
}

func sanitize(key string, value interface{}) interface{} {
	lower := strings.ToLower(key)
	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lower, sensitive) {
			return "[redacted]"
		}
	}
	return value
}
