package dto

import "time"

// SaveOrderRequest entrada para crear (sin id) o reemplazar (con id) un pedido.
// Los campos opcionales omitidos se guardan vacíos: es un reemplazo completo, no un parche.
type SaveOrderRequest struct {
	ID      string `json:"id,omitempty"`
	Nombre  string `json:"nombre" validate:"required"`
	Cliente string `json:"cliente,omitempty"`
	Estado  string `json:"estado,omitempty"`
	Notas   string `json:"notas,omitempty"`
	Seccion string `json:"seccion" validate:"required"`
}

// ListOrdersQuery parámetros de búsqueda de GET /api/orders.
type ListOrdersQuery struct {
	Seccion string `query:"seccion"`
	Q       string `query:"q"`
}

// OrderResponse forma canónica de un pedido (también es la forma persistida en disco).
type OrderResponse struct {
	ID        string    `json:"id"`
	Nombre    string    `json:"nombre"`
	Cliente   string    `json:"cliente"`
	Estado    string    `json:"estado"`
	Notas     string    `json:"notas"`
	Seccion   string    `json:"seccion"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OrderListResponse respuesta de GET /api/orders.
type OrderListResponse struct {
	OK     bool            `json:"ok"`
	Orders []OrderResponse `json:"orders"`
}

// OrderEnvelope respuesta de POST /api/order y GET /api/orders/:id.
type OrderEnvelope struct {
	OK    bool          `json:"ok"`
	Order OrderResponse `json:"order"`
}

// OKResponse respuesta vacía de éxito (DELETE).
type OKResponse struct {
	OK bool `json:"ok"`
}
