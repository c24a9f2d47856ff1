package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/boundary-resolver/internal/config"
	"github.com/boundary-resolver/internal/delivery/http/handler"
	"github.com/boundary-resolver/internal/delivery/http/middleware"
	"github.com/boundary-resolver/internal/pkg/errors"
	"github.com/boundary-resolver/internal/pkg/utils"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	// Handlers
	boundaryHandler *handler.BoundaryHandler
	checkHandler    *handler.CheckHandler
	adminHandler    *handler.AdminHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	boundaryHandler *handler.BoundaryHandler,
	checkHandler *handler.CheckHandler,
	adminHandler *handler.AdminHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "Boundary Resolver",
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Minute, // refresh-datasets может качать долго
		IdleTimeout:           60 * time.Second,
		ErrorHandler:          customErrorHandler(logger),
		DisableStartupMessage: cfg.Server.Env == "production",
	})

	s := &Server{
		app:             app,
		config:          cfg,
		logger:          logger,
		boundaryHandler: boundaryHandler,
		checkHandler:    checkHandler,
		adminHandler:    adminHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.RequestID())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.CORSOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := s.app.Group("/api/v1")

	api.Get("/health", s.boundaryHandler.Health)

	// Boundary routes
	api.Get("/resolve", s.boundaryHandler.Resolve)
	api.Get("/layers", s.boundaryHandler.Layers)

	// Address check routes
	api.Post("/check", s.checkHandler.Check)
	api.Get("/history", s.checkHandler.History)

	// Admin routes
	admin := api.Group("/admin", middleware.AdminToken(s.config.Admin.Token))
	admin.Post("/reload", s.adminHandler.Reload)
	admin.Post("/refresh-datasets", s.adminHandler.RefreshDatasets)
}

// App возвращает приложение Fiber (для тестов)
func (s *Server) App() *fiber.App {
	return s.app
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - кастомный обработчик ошибок
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		if code == fiber.StatusInternalServerError {
			return utils.SendError(c, errors.ErrInternalServer)
		}
		return utils.SendError(c, errors.New("HTTP_ERROR", err.Error(), code))
	}
}
