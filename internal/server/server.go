// Package server contains the HTTP handlers and route wiring for the API.
package server

import (
	"context"
	"time"

	"collabhub/internal/cache"
	"collabhub/internal/config"
	"collabhub/internal/middleware"
	"collabhub/internal/repository"
	"collabhub/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	cache          *cache.Cache
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	collabRepo  repository.CollabRepository
	commentRepo repository.CommentRepository

	authService        *service.AuthService
	collabService      *service.CollabService
	leaderboardService *service.LeaderboardService
}

// NewServer creates a Server using already-initialized dependencies. The DB
// handle and cache are constructed once at startup (bootstrap) and injected;
// nothing here reaches for ambient global state.
func NewServer(cfg *config.Config, db *gorm.DB, c *cache.Cache) *Server {
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	collabRepo := repository.NewCollabRepository(db, c)
	commentRepo := repository.NewCommentRepository(db, c)

	prom := fiberprometheus.New("collabhub-api")

	s := &Server{
		config:         cfg,
		db:             db,
		cache:          c,
		promMiddleware: prom,
		userRepo:       userRepo,
		sessionRepo:    sessionRepo,
		collabRepo:     collabRepo,
		commentRepo:    commentRepo,
	}
	s.authService = service.NewAuthService(userRepo, sessionRepo)
	s.collabService = service.NewCollabService(collabRepo, commentRepo)
	s.leaderboardService = service.NewLeaderboardService(collabRepo, c)

	return s
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID into slog
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS must run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Cookie",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	rdb := s.cache.Client()

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(rdb, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(rdb, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", s.Logout)
	auth.Get("/me", s.AuthRequired(), s.Me)

	// Public collab routes. Fixed segments are registered before the
	// generic /:slug route.
	collabs := api.Group("/collabs")
	collabs.Get("/", s.GetCollabs)
	collabs.Get("/featured", s.GetFeaturedCollabs)
	collabs.Get("/search", middleware.RateLimit(rdb, 10, time.Minute, "search"), s.SearchCollabs)
	collabs.Get("/leaderboard", s.GetLeaderboard)
	collabs.Get("/:id/comments", s.GetComments)
	collabs.Post("/:id/view", s.AddCollabView)
	collabs.Get("/:slug", s.GetCollabBySlug)

	// Protected collab routes
	protected := api.Group("", s.AuthRequired())
	protectedCollabs := protected.Group("/collabs")
	protectedCollabs.Post("/", middleware.RateLimit(rdb, 5, 5*time.Minute, "create_collab"), s.CreateCollab)
	protectedCollabs.Post("/:id/upvote", s.UpvoteCollab)
	protectedCollabs.Post("/:id/bookmark", s.BookmarkCollab)
	protectedCollabs.Delete("/:id/bookmark", s.UnbookmarkCollab)
	protectedCollabs.Post("/:id/comments", middleware.RateLimit(rdb, 10, time.Minute, "create_comment"), s.CreateComment)
	protectedCollabs.Put("/:id", s.UpdateCollab)
	protectedCollabs.Delete("/:id", s.DeleteCollab)

	// Account routes
	users := protected.Group("/users")
	users.Put("/me", s.UpdateMyProfile)
	users.Get("/me/collabs", s.GetMyCollabs)
	users.Get("/me/bookmarks", s.GetMyBookmarks)
}

// LivenessCheck reports that the process is up.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// ReadinessCheck reports whether the database is reachable.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded"})
	}
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// Shutdown releases server-owned resources: the Redis client and the SQL
// connection pool.
func (s *Server) Shutdown(ctx context.Context) error {
	if rdb := s.cache.Client(); rdb != nil {
		if err := rdb.Close(); err != nil {
			return err
		}
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
