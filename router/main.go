package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/muallimisoniy/api/config"
	"github.com/muallimisoniy/api/database"
	"github.com/muallimisoniy/api/handlers"
	admin_handlers "github.com/muallimisoniy/api/handlers/admin"
	book_handlers "github.com/muallimisoniy/api/handlers/book"
	feedback_handlers "github.com/muallimisoniy/api/handlers/feedback"
	manifest_handlers "github.com/muallimisoniy/api/handlers/manifest"
	"github.com/muallimisoniy/api/services/telegram"
	"github.com/muallimisoniy/api/utils/auth"
	"github.com/muallimisoniy/api/utils/cache"
	"github.com/muallimisoniy/api/utils/middleware"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, store database.Storage, env *config.EnviornmentVariable) {
	if env.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := env.JWT_ISSUER
	if jwtIssuer == "" {
		jwtIssuer = "muallimi-soniy-api"
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret: env.JWT_SECRET,
		Expiry: 24 * time.Hour, // Admin session expires in 24 hours
		Issuer: jwtIssuer,
	})

	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Redis backs the manifest cache and brute force protection; both
	// degrade gracefully when it is down
	redisURL := env.REDIS_URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection and manifest caching will be disabled.", err)
		redisCache = nil
	}

	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	// Handlers
	telegramService := telegram.NewService(store)
	bookHandler := book_handlers.NewBookHandler(db)
	manifestHandler := manifest_handlers.NewManifestHandler(db, redisCache, env)
	feedbackHandler := feedback_handlers.NewFeedbackHandler(db, telegramService)
	adminHandler := admin_handlers.NewHandler(db, jwtManager, bruteForceProtection, telegramService, manifestHandler)

	// Apply security middleware
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:5173"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// Health check endpoint (public)
	app.Get("/ping", handlers.HandleCheckHealth(store))

	// API v1 group
	api := app.Group("/api/v1")

	// Public content routes
	api.Get("/book", bookHandler.GetBook)
	api.Get("/book/chapters", bookHandler.ListChapters)
	api.Get("/book/pages", bookHandler.ListPages)
	api.Get("/book/pages/:number", bookHandler.GetPage)
	api.Get("/manifest", manifestHandler.GetManifest)

	// Public feedback (rate limited to 5/min per IP)
	api.Post("/feedback", middleware.RouteLimiter(5, 1*time.Minute), feedbackHandler.SubmitFeedback)

	// Admin login with brute force protection
	adminGroup := api.Group("/admin")
	loginLimiter := middleware.RouteLimiter(10, 1*time.Minute)
	if bruteForceProtection != nil {
		adminGroup.Post("/login", loginLimiter, bruteForceProtection.CheckAndRecordAttempt(), adminHandler.Login)
	} else {
		adminGroup.Post("/login", loginLimiter, adminHandler.Login)
	}

	// Everything else under /admin requires a valid session
	adminGroup.Use(authMiddleware.Required())

	adminGroup.Get("/me", adminHandler.Me)

	// Book & chapters
	adminGroup.Get("/book", adminHandler.GetBook)
	adminGroup.Put("/book/publish", adminHandler.PublishBook)
	adminGroup.Post("/book/chapters", adminHandler.CreateChapter)
	adminGroup.Put("/book/chapters/:id", adminHandler.UpdateChapter)
	adminGroup.Delete("/book/chapters/:id", adminHandler.DeleteChapter)

	// Pages, review & publishing
	adminGroup.Get("/pages", adminHandler.ListPages)
	adminGroup.Get("/pages/:id", adminHandler.GetPage)
	adminGroup.Post("/pages/:id/qa", adminHandler.RunQA)
	adminGroup.Put("/pages/:id/publish", adminHandler.PublishPage)
	adminGroup.Put("/pages/:id/unpublish", adminHandler.UnpublishPage)
	adminGroup.Get("/pages/:id/versions", adminHandler.ListVersions)
	adminGroup.Put("/pages/:id/rollback/:version", adminHandler.RollbackPage)

	// Text units
	adminGroup.Put("/pages/:id/units", adminHandler.ReplaceUnits)
	adminGroup.Post("/pages/:id/units", adminHandler.CreateUnit)
	adminGroup.Put("/units/:id", adminHandler.UpdateUnit)
	adminGroup.Delete("/units/:id", adminHandler.DeleteUnit)

	// Sections
	adminGroup.Get("/pages/:id/sections", adminHandler.ListSections)
	adminGroup.Post("/pages/:id/sections/auto", adminHandler.AutoSection)
	adminGroup.Put("/sections/:id", adminHandler.UpdateSection)
	adminGroup.Delete("/sections/:id", adminHandler.DeleteSection)

	// PDF import
	adminGroup.Post("/import/pdf", adminHandler.ImportPDF)

	// Settings, feedback inbox & audit
	adminGroup.Get("/settings", adminHandler.ListSettings)
	adminGroup.Put("/settings/:key", adminHandler.UpdateSetting)
	adminGroup.Post("/settings/telegram/test", adminHandler.TestTelegram)
	adminGroup.Get("/feedback", adminHandler.ListFeedback)
	adminGroup.Get("/audit", adminHandler.ListAuditLogs)
	adminGroup.Get("/cron-logs", adminHandler.ListCronLogs)
}
