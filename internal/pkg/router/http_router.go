package router

import (
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/monitor"

	"github.com/latpategaurav/blu/app/controllers"
	"github.com/latpategaurav/blu/app/repository"
	"github.com/latpategaurav/blu/internal/pkg/catalog"
	"github.com/latpategaurav/blu/internal/pkg/middleware"
	"github.com/latpategaurav/blu/internal/pkg/session"
	"github.com/latpategaurav/blu/internal/pkg/storage"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	// Shared services the controllers depend on
	controllers.SetCatalogService(catalog.NewServiceFromEnv(repository.GetGlobalRepositories()))

	storageCfg, err := storage.LoadConfig()
	if err != nil {
		log.Warnf("object storage misconfigured, uploads disabled: %v", err)
	} else if storageCfg.IsEnabled() {
		client, err := storage.NewClient(storageCfg)
		if err != nil {
			log.Warnf("object storage unavailable, uploads disabled: %v", err)
		} else {
			controllers.SetStorageClient(client)
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/metrics", monitor.New(monitor.Config{Title: "blu metrics"}))

	app.Use(swagger.New(swagger.Config{
		BasePath: "/docs",
		FilePath: "./public/docs/v1/openapi.yml",
		Path:     "v1",
		Title:    "blu API v1",
	}))
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
