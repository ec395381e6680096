package broker

import (
	"time"

	"vetopay/internal/config"

	"github.com/segmentio/kafka-go"
)

// NewKafkaWriter builds a writer without a fixed topic; every message names
// its own topic so one writer serves the email queue and the event stream.
func NewKafkaWriter(cfg config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{}, // same key, same partition
		RequiredAcks:           kafka.RequireOne,
		Async:                  false,
		MaxAttempts:            10,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
}
