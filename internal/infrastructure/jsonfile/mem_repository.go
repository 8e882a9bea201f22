package jsonfile

import (
	"context"
	"fmt"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/pedido"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*memRepo)(nil)

// memRepo vista en memoria de la colección cargada dentro de Store.Run.
// Entrega y recibe copias para que el llamador no altere el estado sin pasar por Update.
type memRepo struct {
	orders []*entity.Order
	dirty  bool
}

func (r *memRepo) List(_ context.Context, filter entity.OrderFilter) ([]*entity.Order, error) {
	list := pedido.Filter(r.orders, filter)
	out := make([]*entity.Order, 0, len(list))
	for _, o := range list {
		c := *o
		out = append(out, &c)
	}
	pedido.SortByUpdatedDesc(out)
	return out, nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	i := r.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	c := *r.orders[i]
	return &c, nil
}

func (r *memRepo) Create(_ context.Context, order *entity.Order) error {
	if r.indexOf(order.ID) >= 0 {
		return fmt.Errorf("pedido %s: %w", order.ID, domain.ErrDuplicate)
	}
	c := *order
	r.orders = append(r.orders, &c)
	r.dirty = true
	return nil
}

func (r *memRepo) Update(_ context.Context, order *entity.Order) error {
	i := r.indexOf(order.ID)
	if i < 0 {
		return domain.ErrNotFound
	}
	c := *order
	r.orders[i] = &c
	r.dirty = true
	return nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	i := r.indexOf(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	r.orders = append(r.orders[:i], r.orders[i+1:]...)
	r.dirty = true
	return nil
}

func (r *memRepo) indexOf(id string) int {
	for i, o := range r.orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}
