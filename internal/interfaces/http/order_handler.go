package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/orders"
)

const orderNotFoundMsg = "Pedido no encontrado"

// OrderHandler maneja las peticiones HTTP de pedidos.
type OrderHandler struct {
	uc      *orders.OrderUseCase
	metrics Recorder
}

// NewOrderHandler construye el handler. metrics puede ser nil.
func NewOrderHandler(uc *orders.OrderUseCase, metrics Recorder) *OrderHandler {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &OrderHandler{uc: uc, metrics: metrics}
}

// List lista los pedidos, opcionalmente filtrados por sección y texto.
// @Summary      Listar pedidos
// @Tags         pedidos
// @Produce      json
// @Param        seccion  query  string  false  "Sección exacta"
// @Param        q        query  string  false  "Texto a buscar en nombre, cliente, estado y notas"
// @Success      200  {object}  dto.OrderListResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var q dto.ListOrdersQuery
	if err := c.QueryParser(&q); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, CodeInvalidBody, "parámetros inválidos")
	}
	return c.JSON(dto.OrderListResponse{OK: true, Orders: h.uc.List(c.UserContext(), q)})
}

// GetByID obtiene un pedido.
// @Summary      Obtener pedido
// @Tags         pedidos
// @Produce      json
// @Param        id   path      string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderEnvelope
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err, orderNotFoundMsg)
	}
	return c.JSON(dto.OrderEnvelope{OK: true, Order: *order})
}

// Save crea (sin id) o reemplaza (con id) un pedido.
// @Summary      Guardar pedido
// @Tags         pedidos
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SaveOrderRequest  true  "Pedido"
// @Success      200   {object}  dto.OrderEnvelope
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/order [post]
func (h *OrderHandler) Save(c *fiber.Ctx) error {
	var in dto.SaveOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, CodeInvalidBody, "cuerpo inválido")
	}
	order, err := h.uc.Save(c.UserContext(), in)
	if err != nil {
		return writeError(c, err, orderNotFoundMsg)
	}
	if strings.TrimSpace(in.ID) == "" {
		h.metrics.OrderWritten(opCreate)
	} else {
		h.metrics.OrderWritten(opUpdate)
	}
	return c.JSON(dto.OrderEnvelope{OK: true, Order: *order})
}

// Delete elimina un pedido.
// @Summary      Eliminar pedido
// @Tags         pedidos
// @Produce      json
// @Param        id   path      string  true  "ID del pedido"
// @Success      200  {object}  dto.OKResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err, orderNotFoundMsg)
	}
	h.metrics.OrderWritten(opDelete)
	return c.JSON(dto.OKResponse{OK: true})
}

// WorkOrderPDF descarga la hoja de trabajo del pedido.
// @Summary      Hoja de trabajo en PDF
// @Tags         pedidos
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {file}    file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/pdf [get]
func (h *OrderHandler) WorkOrderPDF(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.WorkOrderPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err, orderNotFoundMsg)
	}
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(pdf)
}
