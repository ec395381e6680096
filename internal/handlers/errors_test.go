package handlers

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	apperrors "vetopay/internal/errors"
	"vetopay/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  *apperrors.DomainError
		want int
	}{
		{apperrors.ErrReceiverNotFound, fiber.StatusNotFound},
		{apperrors.ErrAccessDenied, fiber.StatusForbidden},
		{apperrors.ErrInvalidToken, fiber.StatusUnauthorized},
		{apperrors.ErrSenderWalletInactive, fiber.StatusForbidden},
		{apperrors.ErrReceiverWalletInactive, fiber.StatusBadRequest},
		{apperrors.ErrInsufficientFunds, fiber.StatusBadRequest},
		{apperrors.ErrSelfTransfer, fiber.StatusBadRequest},
		{apperrors.ErrReceiverNoWallet, fiber.StatusBadRequest},
		{apperrors.ErrInvalidAmount, fiber.StatusBadRequest},
		{apperrors.ErrEmailTaken, fiber.StatusConflict},
		{apperrors.ErrConflictRetryExhausted, fiber.StatusServiceUnavailable},
		{apperrors.ErrTransferTimeout, fiber.StatusGatewayTimeout},
		{apperrors.Internal(errors.New("boom")), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Code, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func newErrorApp(log *zap.Logger, err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(log)})
	app.Get("/", func(c *fiber.Ctx) error { return err })
	return app
}

func decodeEnvelope(t *testing.T, app *fiber.App) (int, utils.Envelope) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var env utils.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestErrorHandler_DomainError(t *testing.T) {
	status, env := decodeEnvelope(t, newErrorApp(zap.NewNop(), apperrors.ErrInsufficientFunds))

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INSUFFICIENT_FUNDS", env.Error.Code)
	assert.Equal(t, "Insufficient balance", env.Error.Message)
}

func TestErrorHandler_ValidationFields(t *testing.T) {
	err := apperrors.Validation(
		apperrors.FieldError{Field: "amount", Message: "amount must be positive"},
		apperrors.FieldError{Field: "receiverEmail", Message: "must be a valid email address"},
	)
	status, env := decodeEnvelope(t, newErrorApp(zap.NewNop(), err))

	assert.Equal(t, fiber.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Len(t, env.Error.Fields, 2)
}

func TestErrorHandler_HidesInternalCause(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	status, env := decodeEnvelope(t, newErrorApp(zap.New(core), errors.New("pq: connection refused")))

	assert.Equal(t, fiber.StatusInternalServerError, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INTERNAL", env.Error.Code)
	assert.NotContains(t, env.Error.Message, "connection refused")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "request failed", logs.All()[0].Message)
}

func TestErrorHandler_FiberError(t *testing.T) {
	status, env := decodeEnvelope(t, newErrorApp(zap.NewNop(), fiber.ErrNotFound))

	assert.Equal(t, fiber.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}
