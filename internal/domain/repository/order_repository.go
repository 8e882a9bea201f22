package repository

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para Order (DIP).
type OrderRepository interface {
	// List devuelve los pedidos que cumplen el filtro, del más reciente al más antiguo.
	List(ctx context.Context, filter entity.OrderFilter) ([]*entity.Order, error)
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	Create(ctx context.Context, order *entity.Order) error
	// Update reemplaza el pedido con el mismo ID; domain.ErrNotFound si no existe.
	Update(ctx context.Context, order *entity.Order) error
	// Delete elimina por ID; domain.ErrNotFound si no existe.
	Delete(ctx context.Context, id string) error
}
