// Package pedido contiene las reglas puras de dominio sobre pedidos: búsqueda,
// orden de listado y nombres de carpeta seguros para los adjuntos.
package pedido

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// Matcher evalúa un OrderFilter contra pedidos. La consulta se pliega una sola vez.
// No es seguro para uso concurrente.
type Matcher struct {
	seccion string
	query   string
	fold    cases.Caser
}

// NewMatcher prepara el filtro para evaluarlo muchas veces.
func NewMatcher(f entity.OrderFilter) *Matcher {
	m := &Matcher{seccion: f.Seccion, fold: cases.Fold()}
	if f.Query != "" {
		m.query = m.fold.String(f.Query)
	}
	return m
}

// Match informa si el pedido cumple ambos criterios (AND).
func (m *Matcher) Match(o *entity.Order) bool {
	if o == nil {
		return false
	}
	if m.seccion != "" && o.Seccion != m.seccion {
		return false
	}
	if m.query == "" {
		return true
	}
	for _, field := range []string{o.Nombre, o.Cliente, o.Estado, o.Notas} {
		if field == "" {
			continue
		}
		if strings.Contains(m.fold.String(field), m.query) {
			return true
		}
	}
	return false
}

// Filter devuelve los pedidos que cumplen el filtro, conservando el orden de entrada.
func Filter(list []*entity.Order, f entity.OrderFilter) []*entity.Order {
	m := NewMatcher(f)
	out := make([]*entity.Order, 0, len(list))
	for _, o := range list {
		if m.Match(o) {
			out = append(out, o)
		}
	}
	return out
}

// SortByUpdatedDesc ordena del más reciente al más antiguo según UpdatedAt.
func SortByUpdatedDesc(list []*entity.Order) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].UpdatedAt.After(list[j].UpdatedAt)
	})
}
