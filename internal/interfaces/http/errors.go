package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain"
)

// Códigos de error del cuerpo {ok:false, code, message}.
const (
	CodeValidation      = "VALIDATION"
	CodeInvalidBody     = "INVALID_BODY"
	CodeNotFound        = "NOT_FOUND"
	CodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
	CodeStorage         = "STORAGE"
	CodeInternal        = "INTERNAL"
)

func errorJSON(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{OK: false, Code: code, Message: message})
}

// writeError traduce errores de dominio a estado HTTP. notFoundMsg es el mensaje para ErrNotFound.
func writeError(c *fiber.Ctx, err error, notFoundMsg string) error {
	var validation *domain.ValidationError
	var limit *domain.LimitError
	switch {
	case errors.As(err, &validation):
		return errorJSON(c, fiber.StatusBadRequest, CodeValidation, validation.Message)
	case errors.Is(err, domain.ErrInvalidInput):
		return errorJSON(c, fiber.StatusBadRequest, CodeValidation, "datos inválidos")
	case errors.As(err, &limit):
		return errorJSON(c, fiber.StatusRequestEntityTooLarge, CodePayloadTooLarge, limit.Error())
	case errors.Is(err, domain.ErrPayloadTooLarge):
		return errorJSON(c, fiber.StatusRequestEntityTooLarge, CodePayloadTooLarge, "carga demasiado grande")
	case errors.Is(err, domain.ErrNotFound):
		return errorJSON(c, fiber.StatusNotFound, CodeNotFound, notFoundMsg)
	case errors.Is(err, domain.ErrStorage):
		return errorJSON(c, fiber.StatusInternalServerError, CodeStorage, err.Error())
	default:
		return errorJSON(c, fiber.StatusInternalServerError, CodeInternal, err.Error())
	}
}

// ErrorHandler manejador de errores de Fiber: errores no atendidos por los handlers
// (body demasiado grande, método no permitido, panics recuperados) salen con el mismo cuerpo JSON.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := CodeInternal
		switch fe.Code {
		case fiber.StatusBadRequest:
			code = CodeInvalidBody
		case fiber.StatusNotFound:
			code = CodeNotFound
		case fiber.StatusRequestEntityTooLarge:
			code = CodePayloadTooLarge
		}
		return errorJSON(c, fe.Code, code, fe.Message)
	}
	return writeError(c, err, "recurso no encontrado")
}
