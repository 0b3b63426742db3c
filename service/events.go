package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	kafka "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/tokutei/learning-api/config"
)

// EventPublisher announces completed extractions to downstream
// consumers (embedding/question pipelines listen on text.extracted).
type EventPublisher interface {
	PublishTextExtracted(ctx context.Context, materialID, teacherID uuid.UUID, textLength int)
	Close() error
}

type textExtractedEvent struct {
	MaterialID string `json:"material_id"`
	TeacherID  string `json:"teacher_id"`
	TextLength int    `json:"text_length"`
	Source     string `json:"source"`
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher returns nil when no brokers are configured; a nil
// publisher is a no-op.
func NewKafkaPublisher(cfg *config.Config) *KafkaPublisher {
	if cfg.Kafka.Brokers == "" {
		return nil
	}
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  splitBrokers(cfg.Kafka.Brokers),
		Topic:    cfg.Kafka.Topic,
		Balancer: &kafka.LeastBytes{},
	})
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) PublishTextExtracted(ctx context.Context, materialID, teacherID uuid.UUID, textLength int) {
	if p == nil {
		return
	}
	payload, _ := json.Marshal(textExtractedEvent{
		MaterialID: materialID.String(),
		TeacherID:  teacherID.String(),
		TextLength: textLength,
		Source:     "pdf",
	})
	err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(materialID.String()),
		Value: payload,
	})
	if err != nil {
		// Publishing is advisory; extraction results are already persisted.
		logrus.WithField("material_id", materialID).WithError(err).Warn("failed to publish text.extracted event")
	}
}

func (p *KafkaPublisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}

func splitBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			out = append(out, b)
		}
	}
	return out
}
