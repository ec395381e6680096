package broker

import (
	"context"
	"strconv"
	"time"

	"vetopay/internal/models"

	"github.com/shopspring/decimal"
)

// TransferCompletedEvent is published once per committed transfer.
type TransferCompletedEvent struct {
	TransactionID    uint            `json:"transactionId"`
	Reference        string          `json:"reference"`
	SenderWalletID   uint            `json:"senderWalletId"`
	ReceiverWalletID uint            `json:"receiverWalletId"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	CompletedAt      time.Time       `json:"completedAt"`
}

// EventPublisher publishes domain events to the events topic.
type EventPublisher struct {
	publisher *Publisher
	topic     string
}

func NewEventPublisher(publisher *Publisher, topic string) *EventPublisher {
	return &EventPublisher{publisher: publisher, topic: topic}
}

// PublishTransferCompleted keys the event by sender wallet so a consumer
// sees one wallet's outgoing transfers in commit order.
func (p *EventPublisher) PublishTransferCompleted(ctx context.Context, tx *models.Transaction) error {
	event := TransferCompletedEvent{
		TransactionID:    tx.ID,
		Reference:        tx.Reference,
		SenderWalletID:   tx.SenderWalletID,
		ReceiverWalletID: tx.ReceiverWalletID,
		Amount:           tx.Amount,
		Currency:         tx.Currency,
		CompletedAt:      tx.CreatedAt,
	}
	if tx.CompletedAt != nil {
		event.CompletedAt = *tx.CompletedAt
	}
	return p.publisher.Publish(ctx, p.topic, strconv.FormatUint(uint64(tx.SenderWalletID), 10), event)
}
