package uploads

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/pedido"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// Limits límites de una subida.
type Limits struct {
	MaxFileBytes int64 // bytes por archivo
	MaxFiles     int   // archivos por lote
}

// UploadUseCase recibe lotes de archivos y los guarda en <raíz>/<pedido>/.
type UploadUseCase struct {
	root   string
	limits Limits
	writer BatchWriter
	log    *logger.Logger
}

// NewUploadUseCase construye el caso de uso.
func NewUploadUseCase(root string, limits Limits, writer BatchWriter, log *logger.Logger) *UploadUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UploadUseCase{root: root, limits: limits, writer: writer, log: log}
}

// Limits devuelve los límites configurados.
func (uc *UploadUseCase) Limits() Limits { return uc.limits }

// Receive valida el lote completo antes de tocar el disco y luego escribe cada archivo
// con su nombre original (saneado), sobrescribiendo si ya existe.
//
// Errores:
//   - domain.ValidationError  pedido vacío, sin archivos o nombre inutilizable.
//   - domain.LimitError       demasiados archivos o un archivo demasiado grande.
//   - domain.ErrStorage       fallo de escritura.
func (uc *UploadUseCase) Receive(ctx context.Context, pedidoName string, files []FilePart) (*dto.UploadResponse, error) {
	if strings.TrimSpace(pedidoName) == "" {
		return nil, domain.NewValidationError("pedido", "El nombre del pedido es requerido")
	}
	if len(files) == 0 {
		return nil, domain.NewValidationError("files", "No se han enviado archivos")
	}
	if len(files) > uc.limits.MaxFiles {
		return nil, &domain.LimitError{Limit: domain.LimitFileCount, Max: int64(uc.limits.MaxFiles)}
	}
	for _, f := range files {
		if f.Size() > uc.limits.MaxFileBytes {
			return nil, &domain.LimitError{Limit: domain.LimitFileSize, Max: uc.limits.MaxFileBytes, File: f.Name()}
		}
	}

	dir, err := uc.destination(pedidoName)
	if err != nil {
		return nil, err
	}

	parts := make([]NamedPart, 0, len(files))
	for _, f := range files {
		stored, ok := pedido.SanitizeFileName(baseName(f.Name()))
		if !ok {
			return nil, domain.NewValidationError("files", fmt.Sprintf("Nombre de archivo inválido: %q", f.Name()))
		}
		parts = append(parts, NamedPart{StoredName: stored, Part: f})
	}

	sizes, err := uc.writer.WriteBatch(ctx, dir, parts, uc.limits.MaxFileBytes)
	if err != nil {
		return nil, err
	}

	out := &dto.UploadResponse{Success: true, Path: dir, Files: make([]dto.UploadedFileResponse, 0, len(files))}
	var total int64
	for i, f := range files {
		out.Files = append(out.Files, dto.UploadedFileResponse{Filename: f.Name(), Size: sizes[i]})
		total += sizes[i]
	}
	uc.log.Info().
		Str("pedido", pedidoName).
		Str("path", dir).
		Int("archivos", len(files)).
		Int64("bytes", total).
		Msg("archivos guardados")
	return out, nil
}

// destination une el nombre saneado a la raíz y comprueba que no escape de ella.
func (uc *UploadUseCase) destination(pedidoName string) (string, error) {
	folder, ok := pedido.SanitizeName(pedidoName)
	if !ok {
		return "", domain.NewValidationError("pedido", "Nombre de pedido inválido")
	}
	root := filepath.Clean(uc.root)
	dir := filepath.Join(root, folder)
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || strings.ContainsRune(rel, filepath.Separator) {
		return "", domain.NewValidationError("pedido", "Nombre de pedido inválido")
	}
	return dir, nil
}

// baseName descarta cualquier ruta enviada por el cliente, sea con / o con \.
func baseName(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		return name[i+1:]
	}
	return name
}
