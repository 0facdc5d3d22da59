package audit

import (
	"context"

	"github.com/perimetra/devscope/internal/domain/models"
	"github.com/perimetra/devscope/internal/domain/service"
	"github.com/perimetra/devscope/pkg/logger"
)

// loggerSink writes audit events to the structured log. It is the default
// sink when no Kafka brokers are configured.
type loggerSink struct {
	logger logger.Logger
}

// NewLoggerSink creates the log-backed audit sink.
func NewLoggerSink(log logger.Logger) service.AuditService {
	return &loggerSink{logger: log.WithComponent("audit")}
}

func (s *loggerSink) Record(ctx context.Context, event models.AuditEvent) {
	s.logger.Info(ctx, "audit event",
		logger.String("event_id", event.ID),
		logger.String("type", string(event.Type)),
		logger.String("subject", event.Subject),
		logger.String("account_id", event.AccountID),
		logger.String("device_id", event.DeviceID),
		logger.String("outcome", event.Outcome),
		logger.String("reason", event.Reason),
		logger.Time("occurred_at", event.OccurredAt),
	)
}

func (s *loggerSink) Close() error { return nil }
