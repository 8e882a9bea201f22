package http

import (
	"errors"
	"io"
	"mime/multipart"
	"sort"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/uploads"
	"github.com/jhoicas/Pedidos-api/internal/domain"
)

// uploadField campo de archivos que envía el frontend.
const uploadField = "files[]"

// UploadHandler recibe los adjuntos de un pedido.
type UploadHandler struct {
	uc      *uploads.UploadUseCase
	metrics Recorder
}

// NewUploadHandler construye el handler. metrics puede ser nil.
func NewUploadHandler(uc *uploads.UploadUseCase, metrics Recorder) *UploadHandler {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &UploadHandler{uc: uc, metrics: metrics}
}

// Upload guarda los archivos en la carpeta del pedido.
// @Summary      Subir archivos de un pedido
// @Tags         archivos
// @Accept       multipart/form-data
// @Produce      json
// @Param        pedido   formData  string  true  "Nombre del pedido (carpeta destino)"
// @Param        files[]  formData  file    true  "Archivos"
// @Success      200  {object}  dto.UploadResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      413  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/upload [post]
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, CodeInvalidBody, "formulario multipart inválido")
	}
	defer func() { _ = form.RemoveAll() }()

	var pedidoName string
	if v := form.Value["pedido"]; len(v) > 0 {
		pedidoName = v[0]
	}

	out, err := h.uc.Receive(c.UserContext(), pedidoName, collectParts(form))
	if err != nil {
		var limit *domain.LimitError
		if errors.As(err, &limit) {
			h.metrics.UploadRejected(limit.Limit)
		}
		return writeError(c, err, "carpeta no encontrada")
	}
	var total int64
	for _, f := range out.Files {
		total += f.Size
	}
	h.metrics.UploadStored(len(out.Files), total)
	return c.JSON(out)
}

// collectParts toma primero el campo files[] y luego cualquier otro campo de archivo,
// en orden alfabético para que el resultado sea determinista.
func collectParts(form *multipart.Form) []uploads.FilePart {
	keys := make([]string, 0, len(form.File))
	for k := range form.File {
		if k != uploadField {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	keys = append([]string{uploadField}, keys...)

	var parts []uploads.FilePart
	for _, k := range keys {
		for _, fh := range form.File[k] {
			parts = append(parts, fileHeaderPart{fh})
		}
	}
	return parts
}

// fileHeaderPart adapta *multipart.FileHeader a uploads.FilePart.
type fileHeaderPart struct {
	fh *multipart.FileHeader
}

func (p fileHeaderPart) Name() string { return p.fh.Filename }

func (p fileHeaderPart) Size() int64 { return p.fh.Size }

func (p fileHeaderPart) Open() (io.ReadCloser, error) { return p.fh.Open() }
