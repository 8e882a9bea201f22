package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/orders"
	"github.com/jhoicas/Pedidos-api/internal/application/uploads"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/filestore"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/jsonfile"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Pedidos-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type testEnv struct {
	app         *fiber.App
	store       *jsonfile.Store
	uploadsRoot string
	rec         *countingRecorder
}

type countingRecorder struct {
	writes   map[string]int
	stored   int
	rejected []string
}

func (r *countingRecorder) OrderWritten(op string)      { r.writes[op]++ }
func (r *countingRecorder) UploadStored(n int, _ int64) { r.stored += n }
func (r *countingRecorder) UploadRejected(l string)     { r.rejected = append(r.rejected, l) }

// buildTestApp arma la API completa sobre un directorio temporal.
func buildTestApp(t *testing.T, limits uploads.Limits, frontendDir string) *testEnv {
	t.Helper()
	dir := t.TempDir()
	store, err := jsonfile.Open(filepath.Join(dir, "data", "orders.json"), nil)
	require.NoError(t, err)

	uploadsRoot := filepath.Join(dir, "uploads")
	rec := &countingRecorder{writes: map[string]int{}}
	orderUC := orders.NewOrderUseCase(store, store, pdf.NewMarotoWorkOrderGenerator("Imprenta", "Pedidos"), nil)
	uploadUC := uploads.NewUploadUseCase(uploadsRoot, limits, filestore.NewLocalWriter(2, nil), nil)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{OrderUC: orderUC, UploadUC: uploadUC, Metrics: rec})
	apphttp.SPA(app, frontendDir)
	return &testEnv{app: app, store: store, uploadsRoot: uploadsRoot, rec: rec}
}

func defaultLimits() uploads.Limits {
	return uploads.Limits{MaxFileBytes: 1024, MaxFiles: 3}
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

type filePart struct {
	field, name, content string
}

func doUpload(t *testing.T, app *fiber.App, pedido string, files ...filePart) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if pedido != "" {
		require.NoError(t, w.WriteField("pedido", pedido))
	}
	for _, f := range files {
		fw, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Pedidos
// ──────────────────────────────────────────────────────────────────────────────

func TestAPITest_Responde(t *testing.T) {
	env := buildTestApp(t, defaultLimits(), "")
	resp := doJSON(t, env.app, http.MethodGet, "/api/test", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decode[dto.StatusResponse](t, resp)
	assert.True(t, body.OK)
	assert.Equal(t, "Servidor funcionando correctamente", body.Msg)
}

func TestOrders_FlujoCompleto(t *testing.T) {
	env := buildTestApp(t, defaultLimits(), "")

	resp := doJSON(t, env.app, http.MethodPost, "/api/order", dto.SaveOrderRequest{Nombre: "Folletos ABC", Seccion: "carteleria"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	created := decode[dto.OrderEnvelope](t, resp)
	require.True(t, created.OK)
	assert.NotEmpty(t, created.Order.ID)
	assert.Equal(t, "nuevo", created.Order.Estado)
	assert.Equal(t, created.Order.CreatedAt, created.Order.UpdatedAt)

	resp = doJSON(t, env.app, http.MethodGet, "/api/orders", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := decode[dto.OrderListResponse](t, resp)
	require.Len(t, list.Orders, 1)

	resp = doJSON(t, env.app, http.MethodPost, "/api/order", dto.SaveOrderRequest{
		ID: created.Order.ID, Nombre: "Folletos ABC", Seccion: "carteleria", Estado: "listo",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	updated := decode[dto.OrderEnvelope](t, resp)
	assert.Equal(t, "listo", updated.Order.Estado)
	assert.True(t, updated.Order.UpdatedAt.After(created.Order.UpdatedAt))

	resp = doJSON(t, env.app, http.MethodGet, "/api/orders/"+created.Order.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	got := decode[dto.OrderEnvelope](t, resp)
	assert.Equal(t, "listo", got.Order.Estado)

	resp = doJSON(t, env.app, http.MethodDelete, "/api/orders/"+created.Order.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, decode[dto.OKResponse](t, resp).OK)

	resp = doJSON(t, env.app, http.MethodGet, "/api/orders", nil)
	assert.Empty(t, decode[dto.OrderListResponse](t, resp).Orders)

	assert.Equal(t, 1, env.rec.writes["create"])
	assert.Equal(t, 1, env.rec.writes["update"])
	assert.Equal(t, 1, env.rec.writes["delete"])
}

func TestOrders_ListaVaciaEsArregloNoNull(t *testing.T) {
	env := buildTestApp(t, defaultLimits(), "")
	resp := doJSON(t, env.app, http.MethodGet, "/api/orders", nil)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true,"orders":[]}`, string(raw))
}

func TestOrders_FiltrosPorQuery(t *testing.T) {
	env := buildTestApp(t, defaultLimits(), "")
	for _, in := range []dto.SaveOrderRequest{
		{Nombre: "Folletos", Cliente: "ACME", Seccion: "carteleria"},
		{Nombre: "Tarjetas", Cliente: "Beta", Seccion: "imprenta"},
		{Nombre: "Lona", Cliente: "acme sur", Seccion: "imprenta"},
	} {
		resp := doJSON(t, env.app, http.MethodPost, "/api/order", in)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp := doJSON(t, env.app, http.MethodGet, "/api/orders?seccion=imprenta&q=ACME", nil)
	list := decode[dto.OrderListResponse](t, resp)
	require.Len(t, list.Orders, 1)
	assert.Equal(t, "Lona", list.Orders[0].Nombre)
}

func TestOrders_Errores(t *testing.T) {
	env := buildTestApp(t, defaultLimits(), "")

	tests := []struct {
		name    string
		method  string
		path    string
		body    any
		status  int
		code    string
		message string
	}{
		{"nombre vacío", http.MethodPost, "/api/order", dto.SaveOrderRequest{Seccion: "x"}, 400, "VALIDATION", "El nombre es requerido"},
		{"sección vacía", http.MethodPost, "/api/order", dto.SaveOrderRequest{Nombre: "x"}, 400, "VALIDATION", "La sección es requerida"},
		{"actualizar inexistente", http.MethodPost, "/api/order", dto.SaveOrderRequest{ID: "nope", Nombre: "x", Seccion: "y"}, 404, "NOT_FOUND", "Pedido no encontrado"},
		{"eliminar inexistente", http.MethodDelete, "/api/orders/nope", nil, 404, "NOT_FOUND", "Pedido no encontrado"},
		{"obtener inexistente", http.MethodGet, "/api/orders/nope", nil, 404, "NOT_FOUND", "Pedido no encontrado"},
		{"pdf inexistente", http.MethodGet, "/api/orders/nope/pdf", nil, 404, "NOT_FOUND", "Pedido no encontrado"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, env.app, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			body := decode[dto.ErrorResponse](t, resp)
			assert.False(t, body.OK)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.message, body.Message)
		})
	}

	_, err := os.Stat(env.store.Path())
	assert.True(t, os.IsNotExist(err), "ningún error debe escribir el documento")
}

func TestOrders_CuerpoInvalido(t *testing.T) {
	env := buildTestApp(t, defaultLimits(), "")
	req := httptest.NewRequest(http.MethodPost, "/api/order", strings.NewReader("{no json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decode[dto.ErrorResponse](t, resp).Code)
}

func TestOrders_PDF(t *testing.T) {
	env := buildTestApp(t, defaultLimits(), "")
	resp := doJSON(t, env.app, http.MethodPost, "/api/order", dto.SaveOrderRequest{Nombre: "Folletos ABC", Seccion: "carteleria"})
	created := decode[dto.OrderEnvelope](t, resp)

	resp = doJSON(t, env.app, http.MethodGet, "/api/orders/"+created.Order.ID+"/pdf", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "pedido_Folletos_ABC.pdf")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestOrders_IDEnBlancoCuentaComoAlta(t *testing.T) {
	env := buildTestApp(t, defaultLimits(), "")
	resp := doJSON(t, env.app, http.MethodPost, "/api/order", dto.SaveOrderRequest{ID: "  ", Nombre: "Folletos", Seccion: "carteleria"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, decode[dto.OrderEnvelope](t, resp).Order.ID)

	assert.Equal(t, 1, env.rec.writes["create"])
	assert.Zero(t, env.rec.writes["update"])
}

func TestOrders_CuerpoDemasiadoGrande(t *testing.T) {
	env := buildTestApp(t, defaultLimits(), "")
	body := `{"nombre":"` + strings.Repeat("x", apphttp.MaxJSONBodyBytes) + `","seccion":"carteleria"}`
	req := httptest.NewRequest(http.MethodPost, "/api/order", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", decode[dto.ErrorResponse](t, resp).Code)
	_, statErr := os.Stat(env.store.Path())
	assert.True(t, os.IsNotExist(statErr), "no debe guardarse nada")
}

// ──────────────────────────────────────────────────────────────────────────────
// Subidas
// ──────────────────────────────────────────────────────────────────────────────

func TestUpload_GuardaEnCarpetaDelPedido(t *testing.T) {
	env := buildTestApp(t, defaultLimits(), "")
	resp := doUpload(t, env.app, "Folletos ABC",
		filePart{"files[]", "a.pdf", "hola"},
		filePart{"files[]", "b.png", "mundo!"},
	)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decode[dto.UploadResponse](t, resp)
	assert.True(t, out.Success)
	assert.Equal(t, filepath.Join(env.uploadsRoot, "Folletos ABC"), out.Path)
	require.Len(t, out.Files, 2)
	assert.Equal(t, dto.UploadedFileResponse{Filename: "a.pdf", Size: 4}, out.Files[0])
	assert.Equal(t, dto.UploadedFileResponse{Filename: "b.png", Size: 6}, out.Files[1])

	data, err := os.ReadFile(filepath.Join(env.uploadsRoot, "Folletos ABC", "b.png"))
	require.NoError(t, err)
	assert.Equal(t, "mundo!", string(data))
	assert.Equal(t, 2, env.rec.stored)
}

func TestUpload_AceptaOtrosCamposDeArchivo(t *testing.T) {
	env := buildTestApp(t, defaultLimits(), "")
	resp := doUpload(t, env.app, "P1",
		filePart{"adjunto", "z.txt", "z"},
		filePart{"files[]", "a.txt", "a"},
	)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decode[dto.UploadResponse](t, resp)
	require.Len(t, out.Files, 2)
	assert.Equal(t, "a.txt", out.Files[0].Filename, "files[] va primero")
	assert.Equal(t, "z.txt", out.Files[1].Filename)
}

func TestUpload_Errores(t *testing.T) {
	tests := []struct {
		name   string
		pedido string
		files  []filePart
		status int
		code   string
	}{
		{"sin pedido", "", []filePart{{"files[]", "a.txt", "a"}}, 400, "VALIDATION"},
		{"sin archivos", "P1", nil, 400, "VALIDATION"},
		{"demasiados archivos", "P1", []filePart{
			{"files[]", "1", "1"}, {"files[]", "2", "2"}, {"files[]", "3", "3"}, {"files[]", "4", "4"},
		}, 413, "PAYLOAD_TOO_LARGE"},
		{"archivo demasiado grande", "P1", []filePart{{"files[]", "big.bin", strings.Repeat("x", 1025)}}, 413, "PAYLOAD_TOO_LARGE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := buildTestApp(t, defaultLimits(), "")
			resp := doUpload(t, env.app, tt.pedido, tt.files...)
			assert.Equal(t, tt.status, resp.StatusCode)
			body := decode[dto.ErrorResponse](t, resp)
			assert.Equal(t, tt.code, body.Code)

			_, err := os.Stat(filepath.Join(env.uploadsRoot, "P1"))
			assert.True(t, os.IsNotExist(err), "un lote rechazado no crea la carpeta")
		})
	}
}

func TestUpload_LimiteInformaMensaje(t *testing.T) {
	env := buildTestApp(t, defaultLimits(), "")
	resp := doUpload(t, env.app, "P1",
		filePart{"files[]", "1", "1"}, filePart{"files[]", "2", "2"},
		filePart{"files[]", "3", "3"}, filePart{"files[]", "4", "4"},
	)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "Demasiados archivos. Límite: 3 archivos", body.Message)
	assert.Equal(t, []string{"file_count"}, env.rec.rejected)
}

func TestUpload_NoPermiteSalirDeLaRaiz(t *testing.T) {
	env := buildTestApp(t, defaultLimits(), "")
	resp := doUpload(t, env.app, "../../etc", filePart{"files[]", "../x.txt", "x"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decode[dto.UploadResponse](t, resp)

	rel, err := filepath.Rel(env.uploadsRoot, out.Path)
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(rel, ".."), "la carpeta debe quedar dentro de la raíz")
	_, err = os.Stat(filepath.Join(out.Path, "x.txt"))
	assert.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// SPA y rutas desconocidas
// ──────────────────────────────────────────────────────────────────────────────

func TestSPA_FallbackAIndex(t *testing.T) {
	front := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(front, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(front, "app.js"), []byte("console.log(1)"), 0o644))
	env := buildTestApp(t, defaultLimits(), front)

	resp := doJSON(t, env.app, http.MethodGet, "/pedidos/123", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "<html>app</html>", string(body))

	resp = doJSON(t, env.app, http.MethodGet, "/app.js", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(t, "console.log(1)", string(body))
}

func TestSPA_APIDesconocidaEs404JSON(t *testing.T) {
	front := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(front, "index.html"), []byte("<html>app</html>"), 0o644))
	env := buildTestApp(t, defaultLimits(), front)

	resp := doJSON(t, env.app, http.MethodGet, "/api/nada", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "NOT_FOUND", body.Code)
	assert.Equal(t, "API endpoint not found", body.Message)
}

func TestSPA_SinFrontendResponde404(t *testing.T) {
	env := buildTestApp(t, defaultLimits(), filepath.Join(t.TempDir(), "no-existe"))
	resp := doJSON(t, env.app, http.MethodGet, "/cualquier", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
