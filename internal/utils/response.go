package utils

import (
	apperrors "vetopay/internal/errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorBody is the error half of the response envelope.
type ErrorBody struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Fields  []apperrors.FieldError `json:"fields,omitempty"`
}

// Envelope wraps every JSON response.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Message string     `json:"message,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// Respond sends a JSON response with the specified status code.
func Respond(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(Envelope{Success: true, Data: data})
}

// Success sends a successful JSON response.
func Success(c *fiber.Ctx, data any) error {
	return Respond(c, fiber.StatusOK, data)
}

// Created sends a 201 with data.
func Created(c *fiber.Ctx, data any) error {
	return Respond(c, fiber.StatusCreated, data)
}

// Message sends a successful response carrying only a message.
func Message(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{Success: true, Message: message})
}

// Fail sends an error envelope.
func Fail(c *fiber.Ctx, status int, body ErrorBody) error {
	return c.Status(status).JSON(Envelope{Success: false, Error: &body})
}
