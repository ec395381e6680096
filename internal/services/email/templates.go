package email

import (
	"fmt"

	"vetopay/internal/models"
)

// TransactionSent is addressed to the sender of tx. Both users must be
// loaded.
func TransactionSent(sender, receiver *models.User, tx *models.Transaction) Message {
	return Message{
		To:       sender.Email,
		Name:     sender.FirstName,
		Subject:  fmt.Sprintf("You sent %s %s", tx.Currency, tx.Amount.StringFixed(2)),
		Template: TemplateTransactionSent,
		Data: map[string]any{
			"amount":       tx.Amount.String(),
			"currency":     tx.Currency,
			"receiverName": receiver.FullName(),
			"reference":    tx.Reference,
			"description":  tx.Description,
			"createdAt":    tx.CreatedAt,
		},
	}
}

// TransactionReceived is addressed to the receiver of tx.
func TransactionReceived(sender, receiver *models.User, tx *models.Transaction) Message {
	return Message{
		To:       receiver.Email,
		Name:     receiver.FirstName,
		Subject:  fmt.Sprintf("You received %s %s", tx.Currency, tx.Amount.StringFixed(2)),
		Template: TemplateTransactionReceived,
		Data: map[string]any{
			"amount":      tx.Amount.String(),
			"currency":    tx.Currency,
			"senderName":  sender.FullName(),
			"reference":   tx.Reference,
			"description": tx.Description,
			"createdAt":   tx.CreatedAt,
		},
	}
}

func Welcome(user *models.User) Message {
	return Message{
		To:       user.Email,
		Name:     user.FirstName,
		Subject:  "Welcome to VetoPay",
		Template: TemplateWelcome,
	}
}
