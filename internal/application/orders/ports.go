package orders

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// TxRunner ejecuta una función de lectura-modificación-escritura como unidad exclusiva,
// pasando un repositorio atado a esa unidad. Si fn devuelve error no se persiste nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(repo repository.OrderRepository) error) error
}

// WorkOrderPDFGenerator genera la hoja de trabajo imprimible de un pedido.
type WorkOrderPDFGenerator interface {
	GenerateWorkOrderPDF(ctx context.Context, order *entity.Order) ([]byte, error)
}
