// services/http.go
package services

import (
	"fmt"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	log "github.com/sirupsen/logrus"

	_ "github.com/mjiang-series/petcafe_api/docs"
	"github.com/mjiang-series/petcafe_api/services/handlers"
	"github.com/mjiang-series/petcafe_api/shared"
)

// HttpService owns the public API surface. Route handlers only parse and
// respond; every game rule lives in the services behind them.
type HttpService struct {
	context.DefaultService

	jwtSvc       *JWTService
	rateLimitSvc *RateLimitService
	monitorSvc   *MonitoringService

	sessionHandler *handlers.SessionHandler
	playerHandler  *handlers.PlayerHandler
	gachaHandler   *handlers.GachaHandler
	shiftHandler   *handlers.ShiftHandler
	bondHandler    *handlers.BondHandler
	memoryHandler  *handlers.MemoryHandler
	adminHandler   *handlers.AdminHandler

	port   int
	server *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	svc.monitorSvc = svc.Service(MONITORING_SVC).(*MonitoringService)

	svc.sessionHandler = handlers.NewSessionHandler(svc.Service(SESSION_SVC).(*SessionService))
	svc.playerHandler = handlers.NewPlayerHandler(svc.Service(PLAYER_SVC).(*PlayerService))
	svc.gachaHandler = handlers.NewGachaHandler(svc.Service(GACHA_SVC).(*GachaService))
	svc.shiftHandler = handlers.NewShiftHandler(svc.Service(SHIFT_SVC).(*ShiftService))
	svc.bondHandler = handlers.NewBondHandler(svc.Service(BOND_SVC).(*BondService))
	svc.memoryHandler = handlers.NewMemoryHandler(svc.Service(MEMORY_SVC).(*MemoryService))
	svc.adminHandler = handlers.NewAdminHandler(
		svc.Service(PLAYER_SVC).(*PlayerService),
		svc.Service(SHIFT_SVC).(*ShiftService),
	)

	app := fiber.New(fiber.Config{
		ErrorHandler: svc.handleError,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(MonitoringMiddleware(svc.monitorSvc))

	app.Get("/ping", svc.ping)
	app.Get("/swagger/*", swagger.HandlerDefault)

	svc.registerRoutes(app)

	svc.server = app

	log.WithField("port", svc.port).Info("http service listening")
	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) registerRoutes(app *fiber.App) {
	auth := svc.Service(AuthMiddlewareID())

	v1 := app.Group("/api/v1")

	v1.Get("/ping", svc.ping)
	v1.Post("/session", svc.rateLimitSvc.Middleware("session"), svc.sessionHandler.CreateSession)
	v1.Post("/account/login", svc.rateLimitSvc.Middleware("login"), svc.sessionHandler.Login)

	required := auth.(AuthProvider).RequiredAuth()

	protected := v1.Group("", required)
	protected.Post("/account/claim", svc.sessionHandler.ClaimAccount)

	protected.Get("/player", svc.playerHandler.GetProfile)
	protected.Get("/player/pets", svc.playerHandler.GetCollection)
	protected.Get("/player/inventory", svc.playerHandler.GetInventory)

	protected.Post("/gacha/pull", svc.rateLimitSvc.Middleware("pull"), svc.gachaHandler.Pull)
	protected.Post("/gacha/tutorial", svc.gachaHandler.TutorialPull)
	protected.Get("/gacha/history", svc.gachaHandler.History)

	protected.Get("/shifts", svc.shiftHandler.List)
	protected.Post("/shifts", svc.shiftHandler.Start)
	protected.Post("/shifts/:shiftId/complete", svc.rateLimitSvc.Middleware("shift_complete"), svc.shiftHandler.Complete)

	protected.Get("/bonds", svc.bondHandler.List)

	protected.Get("/memories", svc.memoryHandler.List)
	protected.Post("/memories/:memoryId/publish", svc.memoryHandler.Publish)
	protected.Post("/memories/:memoryId/image", svc.memoryHandler.UploadImage)

	if os.Getenv("DEBUG_ENDPOINTS") == "true" {
		debug := protected.Group("/debug")
		debug.Post("/currency", svc.adminHandler.AddCurrency)
		debug.Post("/pets", svc.adminHandler.AddTestPets)
		debug.Post("/shifts/complete-all", svc.adminHandler.CompleteAllShifts)
		debug.Post("/shifts/:shiftId/duration", svc.adminHandler.SetShiftDuration)
		log.Warn("debug endpoints enabled")
	}
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", "pong")
}

func (svc *HttpService) handleError(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	log.WithError(err).Error("unhandled request error")
	return shared.ResponseJSON(c, fiber.StatusInternalServerError, "Internal Server Error", nil)
}

// AuthProvider is the middleware contract the router depends on; the concrete
// middleware lives outside this package to avoid an import cycle.
type AuthProvider interface {
	RequiredAuth() fiber.Handler
}

// AuthMiddlewareID mirrors the middleware service id without importing it.
func AuthMiddlewareID() string {
	return "auth"
}
