package router

import (
	lotsvc "github.com/checho03/granja-valencia/internal/application/lots"
	pensvc "github.com/checho03/granja-valencia/internal/application/pens"
	pigsvc "github.com/checho03/granja-valencia/internal/application/pigs"
	reportsvc "github.com/checho03/granja-valencia/internal/application/reports"
	"github.com/checho03/granja-valencia/internal/config"
	"github.com/checho03/granja-valencia/internal/infrastructure/database"
	healthhandlers "github.com/checho03/granja-valencia/internal/interfaces/handlers/health"
	lotshandlers "github.com/checho03/granja-valencia/internal/interfaces/handlers/lots"
	penshandlers "github.com/checho03/granja-valencia/internal/interfaces/handlers/pens"
	pigshandlers "github.com/checho03/granja-valencia/internal/interfaces/handlers/pigs"
	reportshandlers "github.com/checho03/granja-valencia/internal/interfaces/handlers/reports"
	"github.com/checho03/granja-valencia/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and route
// registration, opening the database and Redis from config.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redis.NewClient(opts)
	}

	healthHandlers := &healthhandlers.Handlers{DB: db, Rdb: rdb}
	app.Get("/health/json", healthHandlers.JSON)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	if db != nil {
		RegisterRoutes(app, db, rdb)
	}

	return app, db, rdb, nil
}

// RegisterRoutes wires the livestock modules onto the app. Split from
// CreateApp so tests can mount routes on an in-memory store.
func RegisterRoutes(app *fiber.App, db *gorm.DB, rdb *redis.Client) {
	lotService := &lotsvc.Service{DB: db}
	lotHandlers := &lotshandlers.Handlers{Service: lotService}
	lotGroup := app.Group("/api/v1/lots")
	lotGroup.Post("/create-lot", lotHandlers.CreateLot)
	lotGroup.Post("/finalize-lot/:id", lotHandlers.FinalizeLot)
	lotGroup.Get("/view-lot/:id", lotHandlers.ViewLot)
	lotGroup.Get("/list-lots", lotHandlers.ListLots)
	lotGroup.Get("/lot-stats/:id", lotHandlers.LotStats)

	penService := &pensvc.Service{DB: db}
	penHandlers := &penshandlers.Handlers{Service: penService}
	penGroup := app.Group("/api/v1/pens")
	penGroup.Post("/create-pen", penHandlers.CreatePen)
	penGroup.Get("/view-pen/:id", penHandlers.ViewPen)
	penGroup.Get("/list-pens", penHandlers.ListPens)

	pigService := &pigsvc.Service{DB: db}
	pigHandlers := &pigshandlers.Handlers{Service: pigService}
	pigGroup := app.Group("/api/v1/pigs")
	pigGroup.Post("/admit-pig", pigHandlers.AdmitPig)
	pigGroup.Post("/record-weighing", pigHandlers.RecordWeighing)
	pigGroup.Post("/change-state", pigHandlers.ChangeState)
	pigGroup.Post("/transfer-pig", pigHandlers.TransferPig)
	pigGroup.Get("/view-pig/:id", pigHandlers.ViewPig)
	pigGroup.Get("/list-pigs", pigHandlers.ListPigs)
	pigGroup.Get("/change-log/:id", pigHandlers.ChangeLog)

	reportService := &reportsvc.Service{DB: db, Rdb: rdb, TTL: reportsvc.DefaultTTL}
	reportHandlers := &reportshandlers.Handlers{Service: reportService}
	app.Get("/api/v1/reports/herd-summary", reportHandlers.HerdSummary)
}
