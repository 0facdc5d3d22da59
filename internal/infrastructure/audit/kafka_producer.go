// Package audit implements the audit trail sinks. The Kafka producer is used
// when brokers are configured; the logger sink otherwise. Audit entries keep
// the internal detail (unknown user vs wrong password, cross-account lookup)
// that the external API deliberately collapses.
package audit

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/perimetra/devscope/internal/config"
	"github.com/perimetra/devscope/internal/domain/models"
	"github.com/perimetra/devscope/internal/domain/service"
	"github.com/perimetra/devscope/pkg/logger"
)

// KafkaProducer publishes audit events to a Kafka topic.
type KafkaProducer struct {
	writer *kafka.Writer
	logger logger.Logger
}

// NewKafkaProducer creates the producer from config.
func NewKafkaProducer(cfg config.KafkaConfig, log logger.Logger) service.AuditService {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.AuditTopic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: cfg.WriteTimeout,
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
	}
	return &KafkaProducer{
		writer: writer,
		logger: log.WithComponent("audit_kafka"),
	}
}

// Record publishes the event. Failures are logged and swallowed: auditing
// never fails the operation being audited.
func (p *KafkaProducer) Record(ctx context.Context, event models.AuditEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error(ctx, "failed to marshal audit event", err)
		return
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Subject),
		Value: payload,
	}); err != nil {
		p.logger.Error(ctx, "failed to publish audit event", err,
			logger.String("type", string(event.Type)),
		)
	}
}

// Close flushes and closes the underlying writer.
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
