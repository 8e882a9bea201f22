package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

func TestListQuery(t *testing.T) {
	tests := []struct {
		name      string
		filter    entity.OrderFilter
		wantWhere string
		wantArgs  []any
	}{
		{"sin filtro", entity.OrderFilter{}, "", nil},
		{"solo sección", entity.OrderFilter{Seccion: "imprenta"}, " WHERE seccion = $1", []any{"imprenta"}},
		{
			"solo texto", entity.OrderFilter{Query: "acme"},
			" WHERE (nombre ILIKE $1 OR cliente ILIKE $1 OR estado ILIKE $1 OR notas ILIKE $1)",
			[]any{"%acme%"},
		},
		{
			"ambos", entity.OrderFilter{Seccion: "imprenta", Query: "acme"},
			" WHERE seccion = $1 AND (nombre ILIKE $2 OR cliente ILIKE $2 OR estado ILIKE $2 OR notas ILIKE $2)",
			[]any{"imprenta", "%acme%"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := listQuery(tt.filter)
			want := `SELECT ` + orderColumns + ` FROM pedidos` + tt.wantWhere + ` ORDER BY updated_at DESC`
			assert.Equal(t, want, query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\% algodón`, escapeLike("100% algodón"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\ruta`, escapeLike(`c:\ruta`))
}
