package http

// Recorder registra eventos de negocio para métricas.
type Recorder interface {
	OrderWritten(op string)
	UploadStored(files int, bytes int64)
	UploadRejected(limit string)
}

// Etiquetas de operación para OrderWritten.
const (
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

type nopRecorder struct{}

func (nopRecorder) OrderWritten(string)     {}
func (nopRecorder) UploadStored(int, int64) {}
func (nopRecorder) UploadRejected(string)   {}
