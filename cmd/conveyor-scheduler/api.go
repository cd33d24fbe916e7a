// Package main provides the Conveyor scheduler: the job registration API and
// the registrar arming schedule timers.
package main

import (
	"log/slog"
	"strconv"

	"github.com/conveyorhq/conveyor/pkg/persistence"
	"github.com/conveyorhq/conveyor/pkg/registrar"
	"github.com/conveyorhq/conveyor/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	registrar   *registrar.Registrar
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	store persistence.Persistence,
	reg *registrar.Registrar,
) *API {
	return &API{
		logger:      logger,
		persistence: store,
		registrar:   reg,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.persistence, a.registrar, a.validate, a.logger)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Conveyor Scheduler")
	})

	jobs := app.Group("/jobs")
	jobs.Post("/register", handlers.RegisterJob)

	schedules := app.Group("/schedules")
	schedules.Get("/:id", handlers.GetSchedule)
	schedules.Delete("/:id", handlers.DeleteSchedule)

	app.Get("/executions/:id", handlers.GetExecution)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
