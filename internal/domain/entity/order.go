package entity

import "time"

// EstadoNuevo es el estado asignado a un pedido cuando no se indica ninguno.
const EstadoNuevo = "nuevo"

// Order representa un pedido del taller de impresión.
// ID y CreatedAt no cambian después de la creación; UpdatedAt se actualiza en cada guardado.
type Order struct {
	ID        string
	Nombre    string // nombre visible, obligatorio
	Cliente   string
	Estado    string
	Notas     string
	Seccion   string // clasificación usada para filtrar, obligatoria
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderFilter criterios de búsqueda de pedidos. Los campos vacíos no filtran.
type OrderFilter struct {
	Seccion string // coincidencia exacta (sensible a mayúsculas)
	Query   string // subcadena sin distinguir mayúsculas en nombre, cliente, estado o notas
}
