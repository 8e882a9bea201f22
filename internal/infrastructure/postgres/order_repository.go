package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, nombre, cliente, estado, notas, seccion, created_at, updated_at`

// OrderRepo implementación de OrderRepository (usable con pool o tx).
type OrderRepo struct {
	q         Querier
	forUpdate bool // dentro de TxRunner: GetByID bloquea la fila
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// List filtra en SQL y ordena por updated_at descendente.
func (r *OrderRepo) List(ctx context.Context, filter entity.OrderFilter) ([]*entity.Order, error) {
	query, args := listQuery(filter)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pedidos: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pedido: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// GetByID obtiene un pedido por ID; nil, nil si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM pedidos WHERE id = $1`
	if r.forUpdate {
		query += ` FOR UPDATE`
	}
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pedido: %w", err)
	}
	return o, nil
}

// Create persiste un nuevo pedido.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO pedidos (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.Nombre, o.Cliente, o.Estado, o.Notas, o.Seccion, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert pedido: %w", err)
	}
	return nil
}

// Update reemplaza los campos editables; created_at no se toca.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	query := `
		UPDATE pedidos SET nombre = $2, cliente = $3, estado = $4, notas = $5, seccion = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, o.ID, o.Nombre, o.Cliente, o.Estado, o.Notas, o.Seccion, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update pedido: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un pedido por ID.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM pedidos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete pedido: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// listQuery arma la consulta de List: seccion exacta y q como subcadena sin distinguir
// mayúsculas sobre nombre, cliente, estado y notas.
func listQuery(filter entity.OrderFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if filter.Seccion != "" {
		args = append(args, filter.Seccion)
		where = append(where, "seccion = $"+strconv.Itoa(len(args)))
	}
	if filter.Query != "" {
		args = append(args, "%"+escapeLike(filter.Query)+"%")
		p := "$" + strconv.Itoa(len(args))
		where = append(where, "(nombre ILIKE "+p+" OR cliente ILIKE "+p+" OR estado ILIKE "+p+" OR notas ILIKE "+p+")")
	}
	query := `SELECT ` + orderColumns + ` FROM pedidos`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	return query + ` ORDER BY updated_at DESC`, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func scanOrder(row pgxScanner) (*entity.Order, error) {
	var o entity.Order
	if err := row.Scan(&o.ID, &o.Nombre, &o.Cliente, &o.Estado, &o.Notas, &o.Seccion, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.CreatedAt = o.CreatedAt.UTC()
	o.UpdatedAt = o.UpdatedAt.UTC()
	return &o, nil
}

type pgxScanner interface {
	Scan(dest ...any) error
}
