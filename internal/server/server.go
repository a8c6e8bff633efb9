// Package server contains the HTTP handlers and wiring of the inkwell API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "inkwell/docs" // swagger docs
	"inkwell/internal/auth"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/events"
	"inkwell/internal/middleware"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	log            *slog.Logger
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	tokens         *auth.TokenCodec
	bcryptCost     int

	authService       *service.AuthService
	userService       *service.UserService
	postService       *service.PostService
	engagementService *service.EngagementService
}

// Option customizes a Server.
type Option func(*Server)

// WithoutMetrics disables the Prometheus middleware and /metrics route.
func WithoutMetrics() Option {
	return func(s *Server) { s.promMiddleware = nil }
}

// WithBcryptCost overrides the password hashing cost.
func WithBcryptCost(cost int) Option {
	return func(s *Server) { s.bcryptCost = cost }
}

// NewServer wires repositories and services around already-initialized
// dependencies. rdb may be nil, which disables event publication.
func NewServer(cfg *config.Config, db *gorm.DB, rdb *redis.Client, log *slog.Logger, opts ...Option) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, errors.New("server: config and database are required")
	}
	if log == nil {
		log = slog.Default()
	}

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          rdb,
		log:            log,
		promMiddleware: middleware.InitMetrics("inkwell-api"),
		tokens:         auth.NewTokenCodec(cfg.JWTSecret),
	}
	for _, opt := range opts {
		opt(s)
	}

	publisher := events.NewRedisPublisher(rdb, log)
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	engagementRepo := repository.NewEngagementRepository(db)

	s.authService = service.NewAuthService(userRepo, auth.NewHasher(s.bcryptCost), s.tokens)
	s.userService = service.NewUserService(userRepo)
	s.postService = service.NewPostService(postRepo, publisher)
	s.engagementService = service.NewEngagementService(engagementRepo, publisher)
	return s, nil
}

// App builds the Fiber application with middleware and routes installed.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}
	app := fiber.New(fiber.Config{
		AppName:      "inkwell API",
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: s.errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New(recover.Config{EnableStackTrace: !s.config.IsProduction()}))
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger(s.log))

	app.Use(cors.New(cors.Config{
		AllowOrigins: s.config.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		MaxAge:       86400,
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api/v1")

	userGate := middleware.AuthGate(s.tokens, middleware.UserGate, s.log)
	user := api.Group("/user")
	user.Post("/signup", s.Signup)
	user.Post("/signin", s.Signin)
	user.Get("/me", userGate, s.GetMe)
	user.Put("/me", userGate, s.UpdateMe)

	blogGate := middleware.AuthGate(s.tokens, middleware.BlogGate, s.log)
	for _, prefix := range []string{"/blog", "/post"} {
		posts := api.Group(prefix, blogGate)
		posts.Post("/", s.CreatePost)
		posts.Get("/", s.ListPosts)
		posts.Get("/:id", s.GetPost)
		posts.Put("/:id", s.UpdatePost)
		posts.Delete("/:id", s.DeletePost)
		posts.Post("/:id/like", s.ToggleLike)
		posts.Post("/:id/comment", s.AddComment)
	}
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "up",
		"time":   time.Now().UTC(),
	})
}

// ReadinessCheck reports whether the database and, when configured, Redis respond.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now().UTC(),
	})
}

// Start serves HTTP on the configured address until Shutdown is called.
func (s *Server) Start() error {
	app := s.App()
	s.log.Info("server starting", slog.String("addr", s.config.Addr()), slog.String("env", s.config.Env))
	return app.Listen(s.config.Addr())
}

// Shutdown stops the HTTP server and closes the database and Redis connections.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
		}
	}
	if err := database.Close(s.db); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}

	s.log.Info("server shutdown complete")
	return errors.Join(errs...)
}
