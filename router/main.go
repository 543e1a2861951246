package router

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ukotvy/website/config"
	"github.com/ukotvy/website/handlers"
	admin_handlers "github.com/ukotvy/website/handlers/admin"
	reservation_handlers "github.com/ukotvy/website/handlers/reservation"
	site_handlers "github.com/ukotvy/website/handlers/site"
	"github.com/ukotvy/website/services"
	"github.com/ukotvy/website/services/menuscraper"
	"github.com/ukotvy/website/store"
	"github.com/ukotvy/website/utils/auth"
	"github.com/ukotvy/website/utils/cache"
	"github.com/ukotvy/website/utils/middleware"
)

// Stores bundles the file-backed stores shared across handlers.
type Stores struct {
	Settings   *store.SettingsStore
	MenuCache  *store.MenuCacheStore
	RateLimits *store.RateLimitLog
}

// SetupRoutes wires every endpoint of the site
func SetupRoutes(app *fiber.App, env *config.EnvironmentVariable, stores Stores, scraper *menuscraper.Scraper) {
	if env.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret: env.JWT_SECRET,
		Expiry: 2 * time.Hour,
		Issuer: env.JWT_ISSUER,
	})
	authMiddleware := middleware.NewAuthMiddleware(jwtManager)

	// Redis only backs the admin login lockout; the site runs without it.
	var loginGuard *middleware.LoginGuard
	if env.REDIS_URL != "" {
		redisCache, err := cache.NewRedisCache(env.REDIS_URL)
		if err != nil {
			log.Printf("Warning: failed to connect to Redis: %v. Login lockout is disabled.", err)
		} else {
			loginGuard = middleware.NewLoginGuard(redisCache)
		}
	}

	mailer := services.NewEmailService()
	reservationService := services.NewReservationService(stores.Settings, stores.RateLimits, mailer)

	siteHandler := site_handlers.NewSiteHandler(stores.Settings, stores.MenuCache)
	adminHandler := admin_handlers.NewAdminHandler(stores.Settings, jwtManager, loginGuard)
	scrapeHandler := admin_handlers.NewScrapeHandler(scraper)
	reservationHandler := reservation_handlers.NewReservationHandler(reservationService)

	app.Get("/health", handlers.HandleCheckHealth)

	api := app.Group("/api")
	api.Get("/settings", siteHandler.GetSettings)
	api.Get("/menu/today", siteHandler.GetTodayMenu)
	api.Get("/event/image/:file", siteHandler.GetEventImage)
	api.Post("/reservation", reservationHandler.Submit)

	adminGroup := app.Group("/admin")
	if loginGuard != nil {
		adminGroup.Post("/login", loginGuard.CheckLocked(), adminHandler.Login)
	} else {
		adminGroup.Post("/login", adminHandler.Login)
	}

	session := adminGroup.Group("", authMiddleware.Required())
	session.Post("/logout", adminHandler.Logout)

	mutating := session.Group("", authMiddleware.RequireCSRF())
	mutating.Put("/settings", adminHandler.SaveSettings)
	mutating.Post("/password", adminHandler.ChangePassword)
	mutating.Post("/event/image", adminHandler.UploadEventImage)
	mutating.Post("/scrape", scrapeHandler.TriggerScrape)
}
