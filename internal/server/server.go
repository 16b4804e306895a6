// Package server contains the HTTP handlers and middleware for the recipe API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"recipebox/internal/cache"
	"recipebox/internal/config"
	"recipebox/internal/database"
	"recipebox/internal/mailer"
	"recipebox/internal/middleware"
	"recipebox/internal/models"
	"recipebox/internal/notifications"
	"recipebox/internal/observability"
	"recipebox/internal/repository"
	"recipebox/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	tokenIssuer   = "recipebox-api"
	tokenAudience = "recipebox-client"
	tokenLifetime = 7 * 24 * time.Hour
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	notifier       *notifications.Notifier

	userRepo   repository.UserRepository
	recipeRepo repository.RecipeRepository
	reviewRepo repository.ReviewRepository
	adminRepo  repository.AdminRepository

	userService    *service.UserService
	recipeService  *service.RecipeService
	reviewService  *service.ReviewService
	adminService   *service.AdminService
	contactService *service.ContactService
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil; cache, revocation and rate limiting are then skipped.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics(observability.ServiceName),
		userRepo:       repository.NewUserRepository(db),
		recipeRepo:     repository.NewRecipeRepository(db),
		reviewRepo:     repository.NewReviewRepository(db),
		adminRepo:      repository.NewAdminRepository(db),
	}
	if redisClient != nil {
		s.notifier = notifications.NewNotifier(redisClient)
	}

	// A nil sender puts the contact form in its not-configured mode.
	var sender mailer.Sender
	if smtpSender, err := mailer.NewSMTPSender(cfg); err == nil {
		sender = smtpSender
	} else {
		middleware.Logger.Warn("contact mail disabled", slog.String("reason", err.Error()))
	}

	s.userService = service.NewUserService(s.userRepo)
	s.recipeService = service.NewRecipeService(s.recipeRepo, s.notifier)
	s.reviewService = service.NewReviewService(s.reviewRepo, s.recipeRepo, s.userRepo, s.notifier)
	s.adminService = service.NewAdminService(s.adminRepo, s.userRepo, s.reviewRepo, s.recipeService, s.reviewService)
	s.contactService = service.NewContactService(sender, cfg)

	return s, nil
}

// NewApp builds the Fiber application with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "Recipe Box API",
		BodyLimit: 4 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
				slog.String("path", c.Path()), slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	app.Use(middleware.TracingMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000,http://localhost:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
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
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", s.AuthRequired(), s.Logout)

	users := api.Group("/users")
	users.Get("/me", s.AuthRequired(), s.GetMyProfile)
	users.Put("/me", s.AuthRequired(), s.UpdateMyProfile)
	users.Get("/:id", s.GetUserProfile)

	recipes := api.Group("/recipes")
	recipes.Get("/", s.GetRecipes)
	recipes.Get("/user/:userId", s.GetUserRecipes)
	recipes.Get("/:id", s.GetRecipe)
	recipes.Post("/", s.AuthRequired(), middleware.RateLimit(s.redis, 10, time.Hour, "create_recipe"), s.CreateRecipe)
	recipes.Post("/:id/like", s.AuthRequired(), s.ToggleRecipeLike)
	recipes.Put("/:id", s.AuthRequired(), s.UpdateRecipe)
	recipes.Delete("/:id", s.AuthRequired(), s.DeleteRecipe)

	// Specific /recipe and /user routes before the generic /:reviewId routes.
	reviews := api.Group("/reviews")
	reviews.Get("/recipe/:recipeId", s.GetRecipeReviews)
	reviews.Get("/user/:userId", s.GetUserReviews)
	reviews.Post("/:reviewId/helpful", s.AuthRequired(), s.ToggleReviewHelpful)
	reviews.Post("/:recipeId", s.AuthRequired(), middleware.RateLimit(s.redis, 10, time.Minute, "create_review"), s.AddReview)
	reviews.Put("/:reviewId", s.AuthRequired(), s.UpdateReview)
	reviews.Delete("/:reviewId", s.AuthRequired(), s.DeleteReview)

	admin := api.Group("/admin", s.AuthRequired(), s.AdminRequired())
	admin.Get("/dashboard/stats", s.GetDashboardStats)
	admin.Get("/users", s.GetAdminUsers)
	admin.Put("/users/:userId/status", s.UpdateUserStatus)
	admin.Put("/users/:userId/admin", s.PromoteToAdmin)
	admin.Get("/recipes", s.GetAdminRecipes)
	admin.Delete("/recipes/:recipeId", s.AdminDeleteRecipe)
	admin.Get("/reviews", s.GetAdminReviews)
	admin.Delete("/reviews/:reviewId", s.AdminDeleteReview)

	contact := api.Group("/contact")
	contact.Get("/info", s.GetContactInfo)
	contact.Post("/", middleware.RateLimit(s.redis, 5, 10*time.Minute, "contact"), s.SendContact)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional, so only
// the database decides the status code.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	} else if redisStatus != "healthy" {
		overallStatus = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals("userID").(uint)

		user, err := s.userRepo.GetByID(c.UserContext(), userID)
		if err != nil && models.StatusFor(err) != fiber.StatusNotFound {
			return s.respondError(c, err)
		}
		if user == nil || !user.IsAdmin() {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Access denied. Admin privileges required."))
		}

		return c.Next()
	}
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := s.parseToken(c)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}

		sub, ok := claims["sub"].(string)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid subject claim"))
		}
		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil || userID == 0 {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid user ID in token"))
		}

		if jti, _ := claims["jti"].(string); jti != "" && s.redis != nil {
			revoked, err := s.redis.Exists(c.UserContext(), cache.RevokedTokenKey(jti)).Result()
			if err == nil && revoked > 0 {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Token has been revoked"))
			}
		}

		// Deactivation takes effect on the next request, not at token expiry.
		user, err := s.userRepo.GetByID(c.UserContext(), uint(userID))
		if err != nil {
			if models.StatusFor(err) == fiber.StatusNotFound {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("User not found"))
			}
			return s.respondError(c, err)
		}
		if !user.IsActive {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Your account has been deactivated"))
		}

		c.Locals("userID", uint(userID))
		c.Locals("claims", claims)
		// Sync to UserContext for logging and downstream services
		c.SetUserContext(middleware.WithUserID(c.UserContext(), uint(userID)))

		return c.Next()
	}
}

// parseToken validates the bearer token's signature, expiry, issuer and audience.
func (s *Server) parseToken(c *fiber.Ctx) (jwt.MapClaims, error) {
	tokenString := ""
	if parts := strings.Split(c.Get("Authorization"), " "); len(parts) == 2 && parts[0] == "Bearer" {
		tokenString = parts[1]
	}
	if tokenString == "" {
		return nil, models.NewUnauthorizedError("Authorization required")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.NewUnauthorizedError("Invalid token claims")
	}
	if issuer, _ := claims["iss"].(string); issuer != tokenIssuer {
		return nil, models.NewUnauthorizedError("Invalid token issuer")
	}
	if audience, _ := claims["aud"].(string); audience != tokenAudience {
		return nil, models.NewUnauthorizedError("Invalid token audience")
	}
	return claims, nil
}

// Start builds the app and listens on the configured port.
func (s *Server) Start() error {
	app := s.NewApp()
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown drains the HTTP server, then releases the database and Redis.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := database.Close(s.db); err != nil {
		middleware.Logger.Error("error closing database", slog.String("error", err.Error()))
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", err.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
