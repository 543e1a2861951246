// Package cron runs the optional in-process scrape schedule. The default
// deployment drives scrapes from the host's crontab through cmd/scrape;
// this manager only starts when CRON_ENABLED=true.
package cron

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ukotvy/website/services/menuscraper"
)

// DefaultScrapeSpec scrapes weekday mornings, shortly before the lunch
// menu is published.
const DefaultScrapeSpec = "0 0 10 * * 1-5"

// CronManager manages the scheduled scrape job
type CronManager struct {
	cron    *cron.Cron
	scraper *menuscraper.Scraper
	spec    string
}

// NewCronManager creates a manager running the scraper on the given cron
// spec (seconds precision); an empty spec falls back to DefaultScrapeSpec.
func NewCronManager(scraper *menuscraper.Scraper, spec string) *CronManager {
	if spec == "" {
		spec = DefaultScrapeSpec
	}
	return &CronManager{
		cron:    cron.New(cron.WithSeconds()),
		scraper: scraper,
		spec:    spec,
	}
}

// Start registers and starts the scrape job
func (m *CronManager) Start() error {
	_, err := m.cron.AddFunc(m.spec, m.runScrape)
	if err != nil {
		return err
	}
	m.cron.Start()
	log.Printf("[CRON] Scrape job scheduled: %s", m.spec)
	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (m *CronManager) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("[CRON] Stopped")
}

func (m *CronManager) runScrape() {
	log.Printf("[CRON] Starting job: scrape_daily_menu at %s", time.Now().Format(time.RFC3339))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	days, err := m.scraper.Run(ctx)
	if err != nil {
		log.Printf("[CRON] Error in job: scrape_daily_menu - %v", err)
		return
	}
	log.Printf("[CRON] Completed job: scrape_daily_menu - %d days cached", days)
}
