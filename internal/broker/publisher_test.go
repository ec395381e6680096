package broker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"vetopay/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func TestEventPublisher_PublishTransferCompleted(t *testing.T) {
	w := &captureWriter{}
	p := NewEventPublisher(NewPublisher(w), "transfer.completed")
	completed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	err := p.PublishTransferCompleted(context.Background(), &models.Transaction{
		ID:               9,
		Reference:        "ref-9",
		SenderWalletID:   3,
		ReceiverWalletID: 4,
		Amount:           decimal.RequireFromString("12.50"),
		Currency:         "USD",
		CompletedAt:      &completed,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "transfer.completed", msg.Topic)
	assert.Equal(t, "3", string(msg.Key))

	var event TransferCompletedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, "ref-9", event.Reference)
	assert.True(t, event.Amount.Equal(decimal.RequireFromString("12.5")))
	assert.True(t, event.CompletedAt.Equal(completed))
}

func TestPublisher_WrapsWriteErrors(t *testing.T) {
	boom := errors.New("broker down")
	p := NewPublisher(&captureWriter{err: boom})

	err := p.Publish(context.Background(), "emails", "k", map[string]string{"a": "b"})

	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "emails")
}
