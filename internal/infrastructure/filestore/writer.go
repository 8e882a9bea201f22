// Package filestore guarda los adjuntos de los pedidos en el sistema de archivos local.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Pedidos-api/internal/application/uploads"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

var _ uploads.BatchWriter = (*LocalWriter)(nil)

// DefaultConcurrency archivos escritos en paralelo por lote.
const DefaultConcurrency = 4

// LocalWriter escribe un lote en dos fases: primero cada archivo a un temporal dentro del
// destino y, solo si todos terminan bien, renombra cada temporal a su nombre final.
// Un fallo en la primera fase elimina todos los temporales y no deja archivos nuevos.
type LocalWriter struct {
	concurrency int
	log         *logger.Logger
}

// NewLocalWriter construye el writer. concurrency <= 0 usa DefaultConcurrency.
func NewLocalWriter(concurrency int, log *logger.Logger) *LocalWriter {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if log == nil {
		log = logger.Nop()
	}
	return &LocalWriter{concurrency: concurrency, log: log}
}

// WriteBatch implementa uploads.BatchWriter.
func (w *LocalWriter) WriteBatch(ctx context.Context, dir string, parts []uploads.NamedPart, maxFileBytes int64) ([]int64, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: crear carpeta %s: %v", domain.ErrStorage, dir, err)
	}

	temps := make([]string, len(parts))
	sizes := make([]int64, len(parts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for i, p := range parts {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tmp, n, err := writeTemp(dir, p, maxFileBytes)
			if err != nil {
				return err
			}
			temps[i] = tmp
			sizes[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		removeAll(temps)
		return nil, err
	}

	for i, p := range parts {
		final := filepath.Join(dir, p.StoredName)
		if err := os.Rename(temps[i], final); err != nil {
			removeAll(temps[i:])
			w.log.Error().Err(err).Str("path", dir).Int("guardados", i).Int("total", len(parts)).
				Msg("lote guardado parcialmente")
			return nil, fmt.Errorf("%w: guardar %s: %v", domain.ErrStorage, p.StoredName, err)
		}
	}
	return sizes, nil
}

// writeTemp copia el contenido a un temporal oculto en dir, leyendo como máximo
// maxFileBytes+1 bytes para detectar tamaños declarados falsos.
func writeTemp(dir string, p uploads.NamedPart, maxFileBytes int64) (string, int64, error) {
	src, err := p.Part.Open()
	if err != nil {
		return "", 0, fmt.Errorf("%w: abrir %s: %v", domain.ErrStorage, p.Part.Name(), err)
	}
	defer src.Close()

	dst, err := os.CreateTemp(dir, ".upload-*.part")
	if err != nil {
		return "", 0, fmt.Errorf("%w: crear temporal: %v", domain.ErrStorage, err)
	}
	tmp := dst.Name()

	n, err := io.Copy(dst, io.LimitReader(src, maxFileBytes+1))
	if err == nil && n > maxFileBytes {
		err = &domain.LimitError{Limit: domain.LimitFileSize, Max: maxFileBytes, File: p.Part.Name()}
	}
	if err == nil {
		err = dst.Sync()
	}
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp)
		var limitErr *domain.LimitError
		if errors.As(err, &limitErr) {
			return "", 0, err
		}
		return "", 0, fmt.Errorf("%w: escribir %s: %v", domain.ErrStorage, p.StoredName, err)
	}
	return tmp, n, nil
}

func removeAll(paths []string) {
	for _, p := range paths {
		if p != "" {
			_ = os.Remove(p)
		}
	}
}
