// Package jsonfile implementa el registro de pedidos sobre un único documento JSON.
//
// Cada escritura serializa la colección completa, la escribe en un archivo temporal
// hermano (<ruta>.tmp) y lo renombra sobre la ruta canónica, de modo que un lector ve
// siempre el documento anterior completo o el nuevo completo. Un mutex por Store
// serializa el ciclo leer-modificar-escribir dentro del proceso.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/jhoicas/Pedidos-api/internal/application/orders"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

var (
	_ repository.OrderRepository = (*Store)(nil)
	_ orders.TxRunner            = (*Store)(nil)
)

// Store registro de pedidos respaldado por un archivo JSON.
// Implementa OrderRepository (cada escritura es su propia unidad) y TxRunner.
type Store struct {
	path string
	log  *logger.Logger
	mu   sync.RWMutex

	// beforeRename se invoca entre la escritura del temporal y el rename (tests de atomicidad).
	beforeRename func(tmpPath string) error
}

// Open prepara el store sobre path, creando el directorio padre si no existe.
// El archivo en sí se crea en la primera escritura.
func Open(path string, log *logger.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("jsonfile: ruta vacía")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("jsonfile: crear directorio de datos: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Store{path: path, log: log}, nil
}

// Path devuelve la ruta canónica del documento.
func (s *Store) Path() string { return s.path }

// Run carga la colección, ejecuta fn sobre una vista en memoria y, si fn no falla y hubo
// cambios, persiste la colección completa de forma atómica. Ante cualquier error el
// cambio en memoria se descarta.
func (s *Store) Run(ctx context.Context, fn func(repo repository.OrderRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	list, corrupt, err := s.load()
	if err != nil {
		return err
	}
	mem := &memRepo{orders: list}
	if err := fn(mem); err != nil {
		return err
	}
	if !mem.dirty {
		return nil
	}
	if corrupt {
		s.preserveCorrupt()
	}
	return s.persist(mem.orders)
}

// List aplica el filtro sobre la colección persistida. Si el documento no se puede leer
// devuelve el error; un documento corrupto se trata como colección vacía.
func (s *Store) List(ctx context.Context, filter entity.OrderFilter) ([]*entity.Order, error) {
	var out []*entity.Order
	err := s.read(func(mem *memRepo) error {
		var err error
		out, err = mem.List(ctx, filter)
		return err
	})
	return out, err
}

// GetByID busca un pedido; nil, nil si no existe.
func (s *Store) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	err := s.read(func(mem *memRepo) error {
		var err error
		out, err = mem.GetByID(ctx, id)
		return err
	})
	return out, err
}

// Create agrega un pedido como unidad independiente.
func (s *Store) Create(ctx context.Context, order *entity.Order) error {
	return s.Run(ctx, func(repo repository.OrderRepository) error { return repo.Create(ctx, order) })
}

// Update reemplaza un pedido como unidad independiente.
func (s *Store) Update(ctx context.Context, order *entity.Order) error {
	return s.Run(ctx, func(repo repository.OrderRepository) error { return repo.Update(ctx, order) })
}

// Delete elimina un pedido como unidad independiente.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.Run(ctx, func(repo repository.OrderRepository) error { return repo.Delete(ctx, id) })
}

func (s *Store) read(fn func(mem *memRepo) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list, _, err := s.load()
	if err != nil {
		return err
	}
	return fn(&memRepo{orders: list})
}

// load lee el documento. Inexistente o vacío equivale a colección vacía; JSON inválido
// también, pero se informa con corrupt=true. Otros fallos de lectura son ErrStorage.
func (s *Store) load() (list []*entity.Order, corrupt bool, err error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: leer %s: %v", domain.ErrStorage, s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, false, nil
	}
	var records []orderRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("documento de pedidos corrupto, se trata como vacío")
		return nil, true, nil
	}
	list = make([]*entity.Order, 0, len(records))
	for _, r := range records {
		list = append(list, r.toEntity())
	}
	return list, false, nil
}

// persist escribe la colección completa en <path>.tmp y la renombra sobre path.
func (s *Store) persist(list []*entity.Order) error {
	records := make([]orderRecord, 0, len(list))
	for _, o := range list {
		records = append(records, toRecord(o))
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: serializar pedidos: %v", domain.ErrStorage, err)
	}

	tmp := s.path + ".tmp"
	if err := writeFileSync(tmp, data); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: escribir temporal: %v", domain.ErrStorage, err)
	}
	if s.beforeRename != nil {
		if err := s.beforeRename(tmp); err != nil {
			_ = os.Remove(tmp)
			return fmt.Errorf("%w: %v", domain.ErrStorage, err)
		}
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: reemplazar %s: %v", domain.ErrStorage, s.path, err)
	}
	s.log.Debug().Int("pedidos", len(records)).Str("path", s.path).Msg("pedidos guardados")
	return nil
}

// preserveCorrupt aparta el documento corrupto antes de sobrescribirlo.
func (s *Store) preserveCorrupt() {
	backup := s.path + ".corrupt-" + strconv.FormatInt(time.Now().UnixNano(), 10)
	if err := os.Rename(s.path, backup); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("no se pudo respaldar el documento corrupto")
		return
	}
	s.log.Warn().Str("backup", backup).Msg("documento corrupto respaldado")
}

func writeFileSync(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
