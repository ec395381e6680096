package handlers

import (
	"errors"

	apperrors "vetopay/internal/errors"
	"vetopay/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

// StatusFor maps a DomainError to its HTTP status.
func StatusFor(de *apperrors.DomainError) int {
	switch de.Kind {
	case apperrors.KindNotFound:
		return fiber.StatusNotFound
	case apperrors.KindAccessDenied:
		return fiber.StatusForbidden
	case apperrors.KindUnauthenticated:
		return fiber.StatusUnauthorized
	case apperrors.KindWalletInactive:
		if de.Code == apperrors.ErrSenderWalletInactive.Code {
			return fiber.StatusForbidden
		}
		return fiber.StatusBadRequest
	case apperrors.KindInsufficientFunds,
		apperrors.KindSelfTransfer,
		apperrors.KindNoWallet,
		apperrors.KindValidation:
		return fiber.StatusBadRequest
	case apperrors.KindConflict:
		return fiber.StatusConflict
	case apperrors.KindConflictRetryExhausted:
		return fiber.StatusServiceUnavailable
	case apperrors.KindTimeout:
		return fiber.StatusGatewayTimeout
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler renders every error returned by a handler or middleware as
// the JSON error envelope. Internal causes are logged, never sent.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return utils.Fail(c, fe.Code, utils.ErrorBody{Code: httpCode(fe.Code), Message: fe.Message})
		}

		var de *apperrors.DomainError
		if !errors.As(err, &de) {
			de = apperrors.Internal(err)
		}
		status := StatusFor(de)
		if status >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("request_id", requestID(c)),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("code", de.Code),
				zap.Error(err))
		}
		return utils.Fail(c, status, utils.ErrorBody{Code: de.Code, Message: de.Message, Fields: de.Fields})
	}
}

func httpCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return string(apperrors.KindNotFound)
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case fiber.StatusUnauthorized:
		return string(apperrors.KindUnauthenticated)
	case fiber.StatusForbidden:
		return string(apperrors.KindAccessDenied)
	}
	if status >= fiber.StatusInternalServerError {
		return string(apperrors.KindInternal)
	}
	return "BAD_REQUEST"
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
	return id
}
