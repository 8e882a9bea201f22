package uploads

import (
	"context"
	"io"
)

// FilePart archivo recibido en una subida. La capa HTTP lo adapta desde multipart.
type FilePart interface {
	Name() string
	Size() int64
	Open() (io.ReadCloser, error)
}

// NamedPart archivo junto con el nombre seguro con el que se guardará.
type NamedPart struct {
	StoredName string
	Part       FilePart
}

// BatchWriter escribe un lote de archivos en dir (creándolo si falta) y devuelve los bytes
// escritos por archivo, en el mismo orden. Un archivo que supere maxFileBytes aborta el lote.
type BatchWriter interface {
	WriteBatch(ctx context.Context, dir string, parts []NamedPart, maxFileBytes int64) ([]int64, error)
}
