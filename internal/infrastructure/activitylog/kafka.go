package activitylog

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

const publishTimeout = 5 * time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaMirror publishes activity lines to a topic so they survive log truncation.
type KafkaMirror struct {
	writer messageWriter
	logger *slog.Logger
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           100 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		Async:                  true,
		AllowAutoTopicCreation: false,
	}
}

func NewKafkaMirror(writer messageWriter, logger *slog.Logger) *KafkaMirror {
	return &KafkaMirror{writer: writer, logger: logger}
}

func (m *KafkaMirror) Publish(line string) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err := m.writer.WriteMessages(ctx, kafka.Message{
		Value: []byte(strings.TrimSuffix(line, "\n")),
		Time:  time.Now(),
	})
	if err != nil {
		m.logger.Warn("failed to mirror activity entry to kafka", "error", err)
	}
}

func (m *KafkaMirror) Close() error {
	return m.writer.Close()
}
