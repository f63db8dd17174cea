// Package server contains the HTTP handlers for the portal API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sehhaty/internal/auth"
	"sehhaty/internal/cache"
	"sehhaty/internal/config"
	"sehhaty/internal/database"
	"sehhaty/internal/middleware"
	"sehhaty/internal/models"
	"sehhaty/internal/observability"
	"sehhaty/internal/repository"
	"sehhaty/internal/service"
	"sehhaty/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SessionCookie is the name of the HTTPOnly cookie carrying the opaque
// session token.
const SessionCookie = "sehhaty_session"

// Server holds all dependencies and provides handlers.
type Server struct {
	config            *config.Config
	db                *gorm.DB
	redis             *redis.Client
	promMiddleware    *fiberprometheus.FiberPrometheus
	sessions          auth.SessionStore
	store             storage.Store
	accountRepo       repository.AccountRepository
	accountService    *service.AccountService
	requestService    *service.RequestService
	attachmentService *service.AttachmentService
}

// NewServer creates a server instance, establishing the database and Redis
// connections from config.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	store, err := storage.NewDisk(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("upload directory unavailable: %w", err)
	}

	sessionTTL := time.Duration(cfg.SessionTTLDays) * 24 * time.Hour
	var sessions auth.SessionStore
	if redisClient != nil {
		sessions = auth.NewRedisSessionStore(redisClient, sessionTTL)
	} else {
		sessions = auth.NewMemorySessionStore(sessionTTL)
	}

	return NewServerWithDeps(cfg, db, redisClient, sessions, store), nil
}

// NewServerWithDeps creates a Server from already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and
// performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, sessions auth.SessionStore, store storage.Store) *Server {
	accountRepo := repository.NewAccountRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)

	prom := fiberprometheus.New("sehhaty-api")

	return &Server{
		config:            cfg,
		db:                db,
		redis:             redisClient,
		promMiddleware:    prom,
		sessions:          sessions,
		store:             store,
		accountRepo:       accountRepo,
		accountService:    service.NewAccountService(accountRepo, attachmentRepo, store),
		requestService:    service.NewRequestService(requestRepo, accountRepo),
		attachmentService: service.NewAttachmentService(attachmentRepo, requestRepo, store, cfg.MaxUploadBytes()),
	}
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())
	app.Use(middleware.TracingMiddleware())

	// CORS runs before middlewares that can short-circuit (e.g. limiter) so
	// browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept",
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

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")

	api.Post("/register", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "register"), s.Register)
	api.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	api.Get("/session", s.SessionProbe)

	protected := api.Group("", s.AuthRequired())
	protected.Post("/logout", s.Logout)
	protected.Get("/profile", s.GetProfile)
	protected.Put("/profile", s.UpdateProfile)

	requests := protected.Group("/requests")
	requests.Post("/", s.CreateRequest)
	requests.Get("/", s.GetMyRequests)
	requests.Get("/:id", s.GetRequest)
	requests.Post("/:id/cancel", s.CancelRequest)

	files := protected.Group("/files")
	files.Get("/", s.GetMyFiles)
	files.Get("/:id/download", s.DownloadFile)
	files.Get("/:id/view", s.ViewFile)

	admin := protected.Group("/admin", s.AdminRequired())

	adminRequests := admin.Group("/requests")
	adminRequests.Get("/", s.GetAllRequests)
	adminRequests.Get("/:id", s.GetRequest)
	adminRequests.Put("/:id/status", s.SetRequestStatus)
	adminRequests.Post("/:id/process", s.ProcessRequest)
	adminRequests.Post("/:id/files", s.UploadRequestFile)

	adminFiles := admin.Group("/files")
	adminFiles.Get("/", s.GetAllFiles)
	adminFiles.Delete("/:id", s.DeleteFile)
	adminFiles.Post("/:id/toggle", s.ToggleFile)

	adminAccounts := admin.Group("/accounts")
	adminAccounts.Get("/", s.GetAllAccounts)
	adminAccounts.Get("/search", s.SearchAccounts)
	adminAccounts.Post("/:id/block", s.BlockAccount)
	adminAccounts.Post("/:id/unblock", s.UnblockAccount)
	adminAccounts.Delete("/:id", s.DeleteAccount)

	admin.Get("/statistics", s.GetStatistics)
	admin.Get("/export/requests", s.ExportRequests)
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
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
		// sessions fall back to the in-memory store without Redis
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired resolves the session cookie into an account. A session bound
// to a missing or blocked account is destroyed on first use, so blocking
// takes effect immediately rather than at cookie expiry.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookie)
		if token == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthenticatedError("Login required"))
		}

		accountID, err := s.sessions.Resolve(c.Context(), token)
		if err != nil {
			s.clearSessionCookie(c)
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthenticatedError("Session expired"))
		}

		account, err := s.accountRepo.GetByID(c.Context(), accountID)
		if err != nil {
			// only a confirmed missing account invalidates the session; a
			// transient lookup failure must not log everyone out
			var appErr *models.AppError
			if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
				s.destroySession(c, token, "account_missing")
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthenticatedError("Session expired"))
			}
			return models.RespondWithError(c, fiber.StatusServiceUnavailable, err)
		}
		if account.IsBlocked() {
			s.destroySession(c, token, "account_blocked")
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthenticatedError("Account is blocked"))
		}

		c.Locals("accountID", account.ID)
		c.Locals("access", auth.AccessContext{Account: account})
		ctx := context.WithValue(c.UserContext(), middleware.AccountIDKey, account.ID)
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// AdminRequired rejects non-admin sessions with 403. Must be placed after
// AuthRequired so the access context is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !s.access(c).IsAdmin() {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Administrator access required"))
		}
		return c.Next()
	}
}

func (s *Server) destroySession(c *fiber.Ctx, token, reason string) {
	_ = s.sessions.Destroy(c.Context(), token)
	s.clearSessionCookie(c)
	observability.SessionsInvalidated.WithLabelValues(reason).Inc()
}

// DB exposes the underlying Gorm handle for bootstrap tasks such as
// ensuring the administrator account exists.
func (s *Server) DB() *gorm.DB {
	return s.db
}

// Shutdown releases server-held resources. The Fiber app itself is shut
// down by the caller.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			slog.WarnContext(ctx, "Error closing Redis connection", slog.Any("error", err))
		}
	}

	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
