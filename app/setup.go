package app

import (
	"fmt"
	"log"
	"time"

	"github.com/ukotvy/website/api"
	"github.com/ukotvy/website/config"
	"github.com/ukotvy/website/router"
	"github.com/ukotvy/website/services"
	"github.com/ukotvy/website/services/cron"
	"github.com/ukotvy/website/services/menuscraper"
	"github.com/ukotvy/website/store"
	"github.com/ukotvy/website/utils/middleware"
)

// SetupAndRunServer wires the whole site and blocks serving it.
func SetupAndRunServer() error {
	if err := config.LoadENV(); err != nil {
		return err
	}

	env, err := config.Get()
	if err != nil {
		return err
	}

	stores := router.Stores{
		Settings:   store.NewSettingsStore(env.SETTINGS_FILE, env.UPLOAD_DIR, env.ADMIN_DEFAULT_PASSWORD),
		MenuCache:  store.NewMenuCacheStore(env.MENU_CACHE_FILE),
		RateLimits: services.NewRateLimitLog(env.RATE_LIMIT_FILE),
	}

	// Create the settings file with defaults up front so the first
	// request does not pay the bcrypt cost.
	if _, err := stores.Settings.Load(); err != nil {
		return fmt.Errorf("initialize settings: %w", err)
	}

	scraper := menuscraper.NewScraper(stores.Settings, stores.MenuCache)

	// The production setup drives scrapes from the host's cron through
	// cmd/scrape; the in-process scheduler must be asked for explicitly.
	var cronManager *cron.CronManager
	if env.CRON_ENABLED {
		cronManager = cron.NewCronManager(scraper, env.CRON_SCRAPE_SPEC)
		if err := cronManager.Start(); err != nil {
			log.Printf("Warning: failed to start cron jobs: %v", err)
			cronManager = nil
		}
	}
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
	}()

	server := api.NewAPIServer(fmt.Sprintf(":%d", env.PORT))
	app := server.GetEngine()

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    env.ALLOWED_ORIGINS,
		RateLimitRequests: 120,
		RateLimitWindow:   time.Minute,
	})

	router.SetupRoutes(app, env, stores, scraper)

	return server.Run()
}
