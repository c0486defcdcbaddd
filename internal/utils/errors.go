package utils

import (
	"wordmeter/internal/errmsg"

	"github.com/gofiber/fiber/v3"
)

// Envelope is the JSON body every endpoint answers with.
type Envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func StatusError(c fiber.Ctx, se errmsg.StatusError) error {
	return Respond(c, se.StatusCode, se.Message, nil)
}

// Respond writes the envelope with the headers browser clients of the read
// API expect.
func Respond(c fiber.Ctx, statusCode int, message string, data any) error {
	c.Set(fiber.HeaderAccessControlAllowOrigin, "*")

	return c.Status(statusCode).JSON(Envelope{
		Message: message,
		Data:    data,
	})
}
