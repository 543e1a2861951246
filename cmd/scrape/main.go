// Command scrape runs one menu scrape-and-store cycle and exits. It is
// the external trigger invoked from the host's crontab:
//
//	30 9 * * 1-5  cd /srv/ukotvy && ./scrape
package main

import (
	"context"
	"log"
	"time"

	"github.com/ukotvy/website/config"
	"github.com/ukotvy/website/services/menuscraper"
	"github.com/ukotvy/website/store"
)

func main() {
	if err := config.LoadENV(); err != nil {
		log.Printf("no .env loaded: %v", err)
	}

	env, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	settings := store.NewSettingsStore(env.SETTINGS_FILE, env.UPLOAD_DIR, env.ADMIN_DEFAULT_PASSWORD)
	cache := store.NewMenuCacheStore(env.MENU_CACHE_FILE)
	scraper := menuscraper.NewScraper(settings, cache)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	days, err := scraper.Run(ctx)
	if err != nil {
		log.Fatalf("scrape failed: %v", err)
	}
	log.Printf("scrape finished, %d days cached", days)
}
