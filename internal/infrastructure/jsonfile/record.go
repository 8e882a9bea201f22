package jsonfile

import (
	"time"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// orderRecord forma en disco de un pedido. Las fechas se guardan como texto ISO-8601
// y se leen con tolerancia: una fecha ilegible queda en cero en lugar de invalidar el documento.
type orderRecord struct {
	ID        string `json:"id"`
	Nombre    string `json:"nombre"`
	Cliente   string `json:"cliente"`
	Estado    string `json:"estado"`
	Notas     string `json:"notas"`
	Seccion   string `json:"seccion"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toRecord(o *entity.Order) orderRecord {
	return orderRecord{
		ID:        o.ID,
		Nombre:    o.Nombre,
		Cliente:   o.Cliente,
		Estado:    o.Estado,
		Notas:     o.Notas,
		Seccion:   o.Seccion,
		CreatedAt: formatTime(o.CreatedAt),
		UpdatedAt: formatTime(o.UpdatedAt),
	}
}

func (r orderRecord) toEntity() *entity.Order {
	return &entity.Order{
		ID:        r.ID,
		Nombre:    r.Nombre,
		Cliente:   r.Cliente,
		Estado:    r.Estado,
		Notas:     r.Notas,
		Seccion:   r.Seccion,
		CreatedAt: parseTime(r.CreatedAt),
		UpdatedAt: parseTime(r.UpdatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
