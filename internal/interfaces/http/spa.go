package http

import (
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
)

// SPA sirve el frontend compilado desde dir con fallback a index.html para las rutas del
// cliente. Las rutas /api/* no registradas responden 404 JSON y nunca caen en el fallback.
// Debe registrarse después de Router.
func SPA(app *fiber.App, dir string) {
	app.All("/api/*", func(c *fiber.Ctx) error {
		return errorJSON(c, fiber.StatusNotFound, CodeNotFound, "API endpoint not found")
	})

	index := filepath.Join(dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		app.Use(func(c *fiber.Ctx) error {
			return errorJSON(c, fiber.StatusNotFound, CodeNotFound, "ruta no encontrada")
		})
		return
	}
	app.Static("/", dir)
	app.Get("/*", func(c *fiber.Ctx) error {
		return c.SendFile(index)
	})
}
