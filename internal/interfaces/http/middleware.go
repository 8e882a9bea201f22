package http

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// RequestLogger registra cada petición con zerolog: método, ruta, estado y duración.
func RequestLogger(log *logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// el ErrorHandler escribe la respuesta; se invoca aquí para registrar el estado final
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()

		ev := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("duracion", time.Since(start)).
			Str("ip", c.IP()).
			Msg("petición HTTP")
		return nil
	}
}

// MaxJSONBodyBytes tamaño máximo del cuerpo en las rutas JSON. El BodyLimit de la app
// se dimensiona para lotes de archivos, no para un pedido.
const MaxJSONBodyBytes = 1 << 20

// JSONBodyLimit rechaza con 413 los cuerpos de más de max bytes, tanto si lo declara
// Content-Length como si llega en streaming sin longitud.
func JSONBodyLimit(max int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Request().Header.ContentLength() > max {
			return errorJSON(c, fiber.StatusRequestEntityTooLarge, CodePayloadTooLarge, "cuerpo demasiado grande")
		}
		if stream := c.Request().BodyStream(); stream != nil {
			data, err := io.ReadAll(io.LimitReader(stream, int64(max)+1))
			if err != nil {
				return errorJSON(c, fiber.StatusBadRequest, CodeInvalidBody, "cuerpo inválido")
			}
			if len(data) > max {
				return errorJSON(c, fiber.StatusRequestEntityTooLarge, CodePayloadTooLarge, "cuerpo demasiado grande")
			}
			c.Request().SetBody(data)
		}
		return c.Next()
	}
}
