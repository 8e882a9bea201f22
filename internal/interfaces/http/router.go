package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/orders"
	"github.com/jhoicas/Pedidos-api/internal/application/uploads"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	OrderUC  *orders.OrderUseCase
	UploadUC *uploads.UploadUseCase
	Metrics  Recorder
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	api.Get("/test", func(c *fiber.Ctx) error {
		return c.JSON(dto.StatusResponse{OK: true, Msg: "Servidor funcionando correctamente"})
	})

	// Pedidos
	orderHandler := NewOrderHandler(deps.OrderUC, deps.Metrics)
	api.Get("/orders", orderHandler.List)
	api.Get("/orders/:id", orderHandler.GetByID)
	api.Get("/orders/:id/pdf", orderHandler.WorkOrderPDF)
	api.Post("/order", JSONBodyLimit(MaxJSONBodyBytes), orderHandler.Save)
	api.Delete("/orders/:id", orderHandler.Delete)

	// Archivos
	uploadHandler := NewUploadHandler(deps.UploadUC, deps.Metrics)
	api.Post("/upload", uploadHandler.Upload)
}
