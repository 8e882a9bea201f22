package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Pedidos-api/docs"
	"github.com/jhoicas/Pedidos-api/internal/application/orders"
	"github.com/jhoicas/Pedidos-api/internal/application/uploads"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/filestore"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/jsonfile"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Pedidos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Pedidos-api/internal/interfaces/http"
	"github.com/jhoicas/Pedidos-api/pkg/config"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// @title        Pedidos API
// @version      1.0
// @description  API del tablero de pedidos de la imprenta: registro de pedidos y subida de archivos.
// @BasePath     /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Registro de pedidos: documento JSON (por defecto) o PostgreSQL.
	var (
		orderRepo repository.OrderRepository
		txRunner  orders.TxRunner
	)
	switch cfg.Storage.Driver {
	case config.StoreDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("esquema de pedidos")
		}
		orderRepo = postgres.NewOrderRepository(pool)
		txRunner = postgres.NewTxRunner(pool)
	default:
		store, err := jsonfile.Open(cfg.Storage.OrdersPath(), log.Named("jsonfile"))
		if err != nil {
			log.Fatal().Err(err).Msg("abrir registro de pedidos")
		}
		orderRepo = store
		txRunner = store
	}

	if err := os.MkdirAll(cfg.Storage.UploadsRoot, 0o755); err != nil {
		log.Fatal().Err(err).Str("path", cfg.Storage.UploadsRoot).Msg("crear carpeta de archivos")
	}

	// PDF: hoja de trabajo del pedido
	pdfGenerator := infrapdf.NewMarotoWorkOrderGenerator(cfg.App.Name, cfg.Storage.UploadsRoot)
	orderUC := orders.NewOrderUseCase(orderRepo, txRunner, pdfGenerator, log.Named("orders"))

	limits := uploads.Limits{MaxFileBytes: cfg.Upload.MaxFileBytes(), MaxFiles: cfg.Upload.MaxFiles}
	writer := filestore.NewLocalWriter(filestore.DefaultConcurrency, log.Named("filestore"))
	uploadUC := uploads.NewUploadUseCase(cfg.Storage.UploadsRoot, limits, writer, log.Named("uploads"))

	appMetrics := metrics.New()

	// Un lote completo al límite más 1 MiB para los campos del formulario.
	batch := uploadUC.Limits()
	bodyLimit := int(int64(batch.MaxFiles)*batch.MaxFileBytes + 1<<20)

	app := fiber.New(fiber.Config{
		AppName:           cfg.App.Name,
		ErrorHandler:      httpRouter.ErrorHandler,
		BodyLimit:         bodyLimit,
		StreamRequestBody: true,
		ReadTimeout:       time.Minute * 10,
		WriteTimeout:      time.Minute * 10,
		IdleTimeout:       time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Named("http")))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(appMetrics.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	docs.SwaggerInfo.Host = cfg.HTTP.Domain
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Pedidos API",
		}))
	}
	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return c.SendString(docs.SwaggerInfo.ReadDoc())
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", appMetrics.Handler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		OrderUC:  orderUC,
		UploadUC: uploadUC,
		Metrics:  appMetrics,
	})
	httpRouter.SPA(app, cfg.HTTP.FrontendDir)

	log.Info().
		Str("addr", cfg.HTTP.Addr()).
		Str("store", cfg.Storage.Driver).
		Str("uploads", cfg.Storage.UploadsRoot).
		Str("datos", cfg.Storage.OrdersPath()).
		Str("frontend", cfg.HTTP.FrontendDir).
		Int("max_file_mb", cfg.Upload.MaxFileMB).
		Int("max_files", cfg.Upload.MaxFiles).
		Msg("servidor listo")

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
