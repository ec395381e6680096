// Package email queues outgoing mail. Delivery is handled by a separate
// consumer of the emails topic.
package email

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

const (
	TemplateTransactionSent     = "transaction_sent"
	TemplateTransactionReceived = "transaction_received"
	TemplateWelcome             = "welcome"
)

// Message is the payload written to the queue.
type Message struct {
	To       string         `json:"to"`
	Name     string         `json:"name"`
	Subject  string         `json:"subject"`
	Template string         `json:"template"`
	Data     map[string]any `json:"data,omitempty"`
}

// Mailer sends or enqueues a single message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Publisher is implemented by broker.Publisher.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}

// QueueMailer enqueues messages on a Kafka topic keyed by recipient.
type QueueMailer struct {
	publisher Publisher
	topic     string
}

func NewQueueMailer(publisher Publisher, topic string) *QueueMailer {
	return &QueueMailer{publisher: publisher, topic: topic}
}

func (m *QueueMailer) Send(ctx context.Context, msg Message) error {
	return m.publisher.Publish(ctx, m.topic, strings.ToLower(msg.To), msg)
}

// LogMailer only logs. Used when no brokers are configured.
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogMailer{log: log.Named("mailer")}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.log.Info("email not queued, no broker configured",
		zap.String("to", msg.To),
		zap.String("template", msg.Template),
		zap.String("subject", msg.Subject))
	return nil
}
