package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/infrastructure/metrics"
)

func TestMiddleware_EtiquetaConPatronDeRuta(t *testing.T) {
	m := metrics.New()
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/api/orders/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNotFound) })
	app.Get("/metrics", m.Handler())

	for _, id := range []string{"a", "b", "c"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/orders/"+id, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	}

	text := scrapeApp(t, app)
	assert.Contains(t, text, `pedidos_http_requests_total{method="GET",route="/api/orders/:id",status="404"} 3`)
	assert.NotContains(t, text, `/api/orders/a"`)
}

func TestContadoresDeDominio(t *testing.T) {
	m := metrics.New()
	m.OrderWritten("create")
	m.OrderWritten("create")
	m.OrderWritten("delete")
	m.UploadStored(2, 300)
	m.UploadRejected("file_size")

	text := scrape(t, m)
	assert.Contains(t, text, `pedidos_orders_writes_total{op="create"} 2`)
	assert.Contains(t, text, `pedidos_orders_writes_total{op="delete"} 1`)
	assert.Contains(t, text, "pedidos_uploads_batches_total 1")
	assert.Contains(t, text, "pedidos_uploads_files_total 2")
	assert.Contains(t, text, "pedidos_uploads_bytes_total 300")
	assert.Contains(t, text, `pedidos_uploads_rejected_total{limit="file_size"} 1`)
}

func TestMetricsNilEsNoop(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.OrderWritten("update")
		m.UploadStored(1, 1)
		m.UploadRejected("file_count")
	})
}

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	app := fiber.New()
	app.Get("/metrics", m.Handler())
	return scrapeApp(t, app)
}

func scrapeApp(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}
