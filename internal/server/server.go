// Package server contains the HTTP handlers and routing for the SkillSwap API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	_ "skillswap/docs" // swagger docs
	"skillswap/internal/bootstrap"
	"skillswap/internal/cache"
	"skillswap/internal/config"
	"skillswap/internal/featureflags"
	"skillswap/internal/middleware"
	"skillswap/internal/models"
	"skillswap/internal/repository"
	"skillswap/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	featureFlags   *featureflags.Manager

	userRepo   repository.UserRepository
	skillRepo  repository.SkillRepository
	availRepo  repository.AvailabilityRepository
	swapRepo   repository.SwapRequestRepository
	reviewRepo repository.ReviewRepository

	userService       *service.UserService
	swapService       *service.SwapService
	reviewService     *service.ReviewService
	moderationService *service.ModerationService
	avatarService     *service.AvatarService
}

// NewServer connects to the database and Redis and builds a Server.
func NewServer(cfg *config.Config) (*Server, error) {
	// Redis is optional; a nil client disables caching and revocation.
	db, redisClient, err := bootstrap.InitRuntime(cfg)
	if err != nil {
		return nil, err
	}

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if db == nil {
		return nil, errors.New("database is required")
	}

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("skillswap-api"),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
		userRepo:       repository.NewUserRepository(db),
		skillRepo:      repository.NewSkillRepository(db),
		availRepo:      repository.NewAvailabilityRepository(db),
		swapRepo:       repository.NewSwapRequestRepository(db),
		reviewRepo:     repository.NewReviewRepository(db),
	}

	s.userService = service.NewUserService(s.userRepo, s.skillRepo, s.availRepo, s.featureFlags)
	s.swapService = service.NewSwapService(s.swapRepo, s.userRepo, s.skillRepo)
	s.reviewService = service.NewReviewService(s.reviewRepo, s.swapRepo)
	s.moderationService = service.NewModerationService(db)
	s.avatarService = service.NewAvatarService(s.userRepo, cfg)

	return s, nil
}

// NewApp returns a Fiber app with the middleware chain and all routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "SkillSwap API",
		BodyLimit:    int(s.avatarSvc().MaxUploadSizeBytes()) + 1024*1024,
		ErrorHandler: s.errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// errorHandler serves errors that escaped a handler, including fiber's own 404/405.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
	}

	status := models.StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}
	return models.RespondWithError(c, status, err)
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and Trace ID
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers; the avatar files are loaded cross-origin by the SPA.
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))

	app.Use(middleware.StructuredLogger())

	// CORS must run before the limiter so that 429 responses still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowCredentials: origins != "*",
		MaxAge:           86400, // 24 hours
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
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	app.Static("/media/avatars", s.avatarSvc().UploadDir(), fiber.Static{
		Browse:        false,
		CacheDuration: time.Hour,
		MaxAge:        86400,
	})

	api := app.Group("/api")
	api.Get("/", s.HealthCheck)
	api.Get("/swagger/*", swagger.HandlerDefault)
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "SkillSwap Backend Metrics Dashboard",
	}))

	// Public routes
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(s.redis, 5, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Specific /users routes before the generic /users/:id
	api.Get("/users/search", middleware.RateLimit(s.redis, 60, time.Minute, "search"), s.SearchUsers)
	api.Get("/users/:id", s.GetPublicProfile)
	api.Get("/reviews/:userId", s.GetUserReviews)
	api.Get("/announcements", s.GetAnnouncements)
	api.Get("/stats", s.GetPublicStats)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	protected.Post("/auth/logout", s.Logout)
	protected.Get("/auth/user", s.GetCurrentUser)
	protected.Get("/feature-flags", s.GetFeatureFlags)

	users := protected.Group("/users")
	users.Put("/profile", s.UpdateProfile)
	users.Post("/profile/avatar", middleware.RateLimit(s.redis, 10, time.Hour, "avatar"), s.UploadAvatar)

	skills := protected.Group("/skills")
	skills.Get("/", s.GetMySkills)
	skills.Post("/", s.CreateSkill)
	skills.Put("/:id", s.UpdateSkill)
	skills.Delete("/:id", s.DeleteSkill)

	availability := protected.Group("/availability")
	availability.Get("/", s.GetMyAvailability)
	availability.Put("/", s.ReplaceAvailability)

	swaps := protected.Group("/swap-requests")
	swaps.Post("/", middleware.RateLimit(s.redis, 20, time.Hour, "create_swap"), s.CreateSwapRequest)
	swaps.Get("/", s.GetMySwapRequests)
	swaps.Put("/:id/status", s.UpdateSwapStatus)
	swaps.Get("/:id", s.GetSwapRequest)

	protected.Post("/reviews", s.CreateReview)
	protected.Post("/reports", middleware.RateLimit(s.redis, 10, time.Hour, "create_report"), s.CreateReport)

	// Admin routes
	admin := protected.Group("/admin", s.AdminRequired())
	admin.Get("/stats", s.GetAdminStats)
	admin.Get("/users", s.GetAdminUsers)
	admin.Post("/users/:id/moderate", s.ModerateUser)
	admin.Post("/users/:id/lift", s.LiftUserModeration)
	admin.Get("/users/:id/moderation", s.GetUserModerationHistory)
	admin.Post("/users/:id/promote-admin", s.PromoteToAdmin)
	admin.Post("/users/:id/demote-admin", s.DemoteFromAdmin)
	admin.Post("/skills/:id/moderate", s.ModerateSkill)
	admin.Get("/skills/:id/moderation", s.GetSkillModerationHistory)
	admin.Get("/swap-requests", s.GetAdminSwapRequests)
	admin.Get("/reports", s.GetAdminReports)
	admin.Put("/reports/:id", s.UpdateReportStatus)
	admin.Get("/announcements", s.GetAdminAnnouncements)
	admin.Post("/announcements", s.CreateAnnouncement)
	admin.Put("/announcements/:id", s.UpdateAnnouncement)
	admin.Delete("/announcements/:id", s.DeleteAnnouncement)
	admin.Get("/activity-report", s.GetActivityReport)
	admin.Get("/feature-flags", s.GetFeatureFlags)
}

// HealthCheck is a simple alias for ReadinessCheck
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return s.ReadinessCheck(c)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now().UTC(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional, so only the
// database decides readiness.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "disabled"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	} else if redisStatus == "unhealthy" {
		overallStatus = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now().UTC(),
	})
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !isAdmin(c) {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}
		return c.Next()
	}
}

// AuthRequired verifies the bearer token, re-loads the user and refuses banned accounts.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		tokenString := middleware.BearerToken(c)
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		claims, err := middleware.ParseToken(s.config.JWTSecret, tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		revoked, err := cache.IsRevoked(ctx, claims.JTI)
		if err != nil {
			middleware.Logger.WarnContext(ctx, "token revocation check failed", slog.String("error", err.Error()))
		}
		if revoked {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Token has been revoked"))
		}

		user, err := s.userRepo.GetByID(ctx, claims.UserID)
		if err != nil {
			if models.IsCode(err, models.CodeNotFound) {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("User no longer exists"))
			}
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}

		banned, err := s.moderationSvc().IsUserBanned(ctx, user.ID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if banned {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Your account has been banned"))
		}

		c.Locals("userID", user.ID)
		c.Locals("isAdmin", user.IsAdmin)
		c.Locals("jti", claims.JTI)
		c.Locals("tokenExp", claims.ExpiresAt)
		c.SetUserContext(middleware.WithUserID(ctx, user.ID))

		return c.Next()
	}
}

// optionalViewer identifies the caller of a public route without requiring a token.
// Any problem with the token makes the caller anonymous.
func (s *Server) optionalViewer(c *fiber.Ctx) (userID uint, admin bool) {
	tokenString := middleware.BearerToken(c)
	if tokenString == "" {
		return 0, false
	}
	claims, err := middleware.ParseToken(s.config.JWTSecret, tokenString)
	if err != nil {
		return 0, false
	}
	if revoked, _ := cache.IsRevoked(c.UserContext(), claims.JTI); revoked {
		return 0, false
	}
	user, err := s.userRepo.GetByID(c.UserContext(), claims.UserID)
	if err != nil {
		return 0, false
	}
	return user.ID, user.IsAdmin
}

// Start builds the app and listens on the configured port.
func (s *Server) Start() error {
	s.app = s.NewApp()

	middleware.Logger.Info("server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
