package web

import (
	"log"

	"github.com/agridash/catalog"
	"github.com/agridash/chartcache"
	"github.com/agridash/series"
	"github.com/agridash/web/handlers"
	"github.com/agridash/web/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Server wraps the Fiber app with its wired services
type Server struct {
	app *fiber.App
}

// Services are the domain dependencies the routes dispatch into.
type Services struct {
	Store       catalog.Store
	Resolver    *catalog.Resolver
	Policy      *catalog.Policy
	Charts      *chartcache.ChartCatalog
	Aggregator  *series.Aggregator
	Integration *series.IntegrationBuilder
}

// NewServer creates the Fiber server with the API routes wired
func NewServer(services Services) *Server {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("ERROR [%s %s]: %v", c.Method(), c.Path(), err)

			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path} ${error}\n",
	}))
	app.Use(middleware.SQLDebug())

	setupRoutes(app, services)

	return &Server{app: app}
}

// Start starts the server
func (s *Server) Start(port string) error {
	log.Printf("Server starting on http://localhost:%s", port)
	return s.app.Listen(":" + port)
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the Fiber app for tests
func (s *Server) App() *fiber.App {
	return s.app
}

// setupRoutes configures all application routes
func setupRoutes(app *fiber.App, services Services) {
	h := handlers.New(
		services.Store,
		services.Resolver,
		services.Policy,
		services.Charts,
		services.Aggregator,
		services.Integration,
	)

	api := app.Group("/api")

	// Debug endpoint for SQL logs
	api.Get("/debug/sql", handlers.GetSQLLogs)
	api.Delete("/debug/sql", handlers.ClearSQLLogs)

	// Breadcrumb menu navigation
	api.Get("/menu/:wi/:ct/:oi/:lct/:loi", h.Menu)

	// Watchlist-scoped charts
	charts := api.Group("/charts")
	charts.Get("/tab/:wi/:ct/:oi/:lct/:loi", h.ChartTab)
	charts.Get("/contents/:ci/:wi/:ct/:oi/:lct/:loi", h.ChartContents)
	charts.Post("/contents/:ci/:wi/:ct/:oi/:lct/:loi", h.ChartContents)
	charts.Post("/integration/:ci/:wi/:ct/:oi/:lct/:loi", h.Integration)

	// Product selector
	selector := api.Group("/selector")
	selector.Post("/ui/:step", h.SelectorUI)
	selector.Get("/tab", h.SelectorTab)
	selector.Get("/charts/:ci/:type/:products", h.SelectorCharts)
	selector.Post("/charts/:ci/:type/:products", h.SelectorCharts)
	selector.Post("/integration/:ci/:type/:products", h.SelectorIntegration)
}
