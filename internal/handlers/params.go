package handlers

import (
	"strconv"
	"strings"
	"time"

	apperrors "vetopay/internal/errors"
	"vetopay/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// parseBody decodes the JSON body into dst and runs its validate tags.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.Validation(apperrors.FieldError{Field: "body", Message: "invalid request body"})
	}
	return validation.Struct(dst)
}

func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.Validation(apperrors.FieldError{Field: param, Message: "must be a positive integer"})
	}
	return uint(id), nil
}

// queryTime accepts RFC 3339 timestamps or plain dates. A plain end date
// covers the whole day.
func queryTime(c *fiber.Ctx, key string, endOfDay bool, v *validation.Validator) *time.Time {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		v.AddError(key, "must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
		return nil
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t
}

func queryDecimal(c *fiber.Ctx, key string, v *validation.Validator) *decimal.Decimal {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		v.AddError(key, "must be a number")
		return nil
	}
	return &d
}
