package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/visonai/visonai-gateway/internal/visonai"
)

type errorData struct {
	Status int `json:"status"`
}

type errorBody struct {
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Data    errorData `json:"data"`
}

// SendError writes e as {"code","message","data":{"status"}}.
func SendError(c *fiber.Ctx, e *visonai.APIError) error {
	return c.Status(e.Status).JSON(errorBody{
		Code:    e.Code,
		Message: e.Message,
		Data:    errorData{Status: e.Status},
	})
}

// NotFound answers unknown API routes.
func NotFound(c *fiber.Ctx) error {
	return SendError(c, visonai.ErrNoRoute)
}
