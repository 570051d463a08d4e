package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/pointtally/internal/debug"
)

// DebugLogRequest representa un log enviado desde el cliente web
type DebugLogRequest struct {
	Source    string                 `json:"source"` // "frontend" siempre para el cliente web
	Level     string                 `json:"level"`  // debug, info, warn, error
	Message   string                 `json:"message"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	AccountID *int64                 `json:"accountId,omitempty"`
}

// DebugErrorRequest representa un error capturado en el cliente web
type DebugErrorRequest struct {
	ErrorType  string                 `json:"errorType"` // runtime_error, network_error, etc.
	Message    string                 `json:"message"`
	StackTrace string                 `json:"stackTrace,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	AccountID  *int64                 `json:"accountId,omitempty"`
}

// ReceiveClientLog recibe logs desde el cliente web y los reenvía al dashboard
func ReceiveClientLog(c *fiber.Ctx) error {
	if !debug.IsEnabled() {
		return c.JSON(fiber.Map{"status": "disabled"})
	}

	var req DebugLogRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// Validar nivel de log
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[req.Level] {
		req.Level = "info"
	}

	// Agregar información adicional al metadata
	if req.Metadata == nil {
		req.Metadata = make(map[string]interface{})
	}
	if req.AccountID != nil {
		req.Metadata["accountId"] = *req.AccountID
	}
	req.Metadata["platform"] = "web"

	// Enviar al dashboard
	debug.SendLog("frontend", req.Level, req.Message, req.Metadata)

	return c.JSON(fiber.Map{"status": "ok"})
}

// ReceiveClientError recibe errores desde el cliente web
func ReceiveClientError(c *fiber.Ctx) error {
	if !debug.IsEnabled() {
		return c.JSON(fiber.Map{"status": "disabled"})
	}

	var req DebugErrorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// Agregar información adicional
	if req.Metadata == nil {
		req.Metadata = make(map[string]interface{})
	}
	if req.AccountID != nil {
		req.Metadata["accountId"] = *req.AccountID
	}
	req.Metadata["platform"] = "web"
	req.Metadata["errorType"] = req.ErrorType
	if req.StackTrace != "" {
		req.Metadata["stackTrace"] = req.StackTrace
	}

	message := "[" + req.ErrorType + "] " + req.Message
	debug.SendLog("frontend", "error", message, req.Metadata)

	return c.JSON(fiber.Map{"status": "ok"})
}
