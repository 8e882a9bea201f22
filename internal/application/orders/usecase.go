package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/pedido"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// OrderUseCase casos de uso del registro de pedidos: listar, obtener, guardar y eliminar.
// Toda escritura pasa por el TxRunner, que serializa el ciclo leer-modificar-escribir.
type OrderUseCase struct {
	repo repository.OrderRepository
	tx   TxRunner
	pdf  WorkOrderPDFGenerator
	log  *logger.Logger
	now  func() time.Time
}

// NewOrderUseCase construye el caso de uso. pdf puede ser nil si no se exponen hojas de trabajo.
func NewOrderUseCase(repo repository.OrderRepository, tx TxRunner, pdf WorkOrderPDFGenerator, log *logger.Logger) *OrderUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &OrderUseCase{repo: repo, tx: tx, pdf: pdf, log: log, now: time.Now}
}

// SetClock reemplaza el reloj (tests).
func (uc *OrderUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

// List devuelve los pedidos filtrados, del más reciente al más antiguo.
// Un almacenamiento ilegible o corrupto equivale a una colección vacía: nunca devuelve error.
func (uc *OrderUseCase) List(ctx context.Context, in dto.ListOrdersQuery) []dto.OrderResponse {
	list, err := uc.repo.List(ctx, entity.OrderFilter{Seccion: in.Seccion, Query: in.Q})
	if err != nil {
		uc.log.Warn().Err(err).Msg("listar pedidos: se devuelve colección vacía")
		return []dto.OrderResponse{}
	}
	pedido.SortByUpdatedDesc(list)
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *toOrderResponse(o))
	}
	return out
}

// Get obtiene un pedido por ID. domain.ErrNotFound si no existe.
func (uc *OrderUseCase) Get(ctx context.Context, id string) (*dto.OrderResponse, error) {
	o, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// Save crea un pedido (sin id) o reemplaza todos sus campos editables (con id).
// Campos opcionales ausentes quedan vacíos; estado ausente vuelve a "nuevo".
func (uc *OrderUseCase) Save(ctx context.Context, in dto.SaveOrderRequest) (*dto.OrderResponse, error) {
	nombre := strings.TrimSpace(in.Nombre)
	if nombre == "" {
		return nil, domain.NewValidationError("nombre", "El nombre es requerido")
	}
	seccion := strings.TrimSpace(in.Seccion)
	if seccion == "" {
		return nil, domain.NewValidationError("seccion", "La sección es requerida")
	}
	estado := strings.TrimSpace(in.Estado)
	if estado == "" {
		estado = entity.EstadoNuevo
	}
	id := strings.TrimSpace(in.ID)

	var saved *entity.Order
	err := uc.tx.Run(ctx, func(repo repository.OrderRepository) error {
		// Precisión de microsegundos: la misma que conserva PostgreSQL.
		now := uc.now().UTC().Truncate(time.Microsecond)

		if id == "" {
			o := &entity.Order{
				ID:        uuid.New().String(),
				Nombre:    nombre,
				Cliente:   in.Cliente,
				Estado:    estado,
				Notas:     in.Notas,
				Seccion:   seccion,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := repo.Create(ctx, o); err != nil {
				return err
			}
			saved = o
			return nil
		}

		current, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if !now.After(current.UpdatedAt) {
			now = current.UpdatedAt.Add(time.Microsecond)
		}
		updated := *current
		updated.Nombre = nombre
		updated.Cliente = in.Cliente
		updated.Estado = estado
		updated.Notas = in.Notas
		updated.Seccion = seccion
		updated.UpdatedAt = now
		if err := repo.Update(ctx, &updated); err != nil {
			return err
		}
		saved = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(saved), nil
}

// Delete elimina un pedido por ID. domain.ErrNotFound si no existe.
func (uc *OrderUseCase) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.NewValidationError("id", "El id es requerido")
	}
	return uc.tx.Run(ctx, func(repo repository.OrderRepository) error {
		return repo.Delete(ctx, id)
	})
}

// WorkOrderPDF genera la hoja de trabajo del pedido y un nombre de archivo sugerido.
func (uc *OrderUseCase) WorkOrderPDF(ctx context.Context, id string) (pdfBytes []byte, filename string, err error) {
	if uc.pdf == nil {
		return nil, "", fmt.Errorf("pdf: generador no configurado")
	}
	o, err := uc.get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.pdf.GenerateWorkOrderPDF(ctx, o)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	slug, ok := pedido.SanitizeName(o.Nombre)
	if !ok {
		slug = o.ID
	}
	return pdfBytes, "pedido_" + strings.ReplaceAll(slug, " ", "_") + ".pdf", nil
}

func (uc *OrderUseCase) get(ctx context.Context, id string) (*entity.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.NewValidationError("id", "El id es requerido")
	}
	o, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	if o == nil {
		return nil
	}
	return &dto.OrderResponse{
		ID:        o.ID,
		Nombre:    o.Nombre,
		Cliente:   o.Cliente,
		Estado:    o.Estado,
		Notas:     o.Notas,
		Seccion:   o.Seccion,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
