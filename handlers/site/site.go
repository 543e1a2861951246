// Package site exposes the read-only data API the page-render layer
// consumes.
package site

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ukotvy/website/model"
	"github.com/ukotvy/website/services/dailymenu"
	"github.com/ukotvy/website/services/openinghours"
	"github.com/ukotvy/website/store"
	"github.com/ukotvy/website/utils/response"
)

// SiteHandler serves the public read endpoints
type SiteHandler struct {
	settings *store.SettingsStore
	menu     *store.MenuCacheStore
}

// NewSiteHandler creates the public site handler
func NewSiteHandler(settings *store.SettingsStore, menu *store.MenuCacheStore) *SiteHandler {
	return &SiteHandler{settings: settings, menu: menu}
}

// settingsResponse is the public settings view plus the opening hours in
// display order and the hours applying today.
type settingsResponse struct {
	Settings     model.PublicSettings `json:"settings"`
	OpeningHours []openinghours.Entry `json:"opening_hours"`
	TodayHours   string               `json:"today_hours,omitempty"`
}

// GetSettings returns the restaurant configuration for rendering
// GET /api/settings
func (h *SiteHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.settings.Load()
	if err != nil {
		log.Printf("site: load settings: %v", err)
		return response.InternalServerError(c, "")
	}

	return response.Success(c, settingsResponse{
		Settings:     settings.Public(),
		OpeningHours: openinghours.Normalize(settings.OpeningHours),
		TodayHours:   todayHours(settings, time.Now()),
	})
}

// todayMenuResponse wraps today's scraped menu entry with the cache age.
type todayMenuResponse struct {
	Day       model.MenuDay `json:"day"`
	ScrapedAt string        `json:"scraped_at"`
}

// GetTodayMenu returns today's entry from the menu cache
// GET /api/menu/today
func (h *SiteHandler) GetTodayMenu(c *fiber.Ctx) error {
	cache, err := h.menu.Load()
	if err != nil {
		if errors.Is(err, store.ErrCacheMissing) {
			return response.ServiceUnavailable(c, "Daily menu has not been scraped yet")
		}
		log.Printf("site: load menu cache: %v", err)
		return response.InternalServerError(c, "")
	}

	now := time.Now()
	day, err := dailymenu.TodayFromCache(cache, now)
	if err != nil {
		var notFound *dailymenu.NotFoundError
		if errors.As(err, &notFound) {
			return response.NotFoundWithData(c, "No menu for today", fiber.Map{
				"scraped_at": notFound.ScrapedAt,
				"stale":      cacheIsStale(cache, now),
			})
		}
		log.Printf("site: resolve today's menu: %v", err)
		return response.InternalServerError(c, "")
	}

	return response.Success(c, todayMenuResponse{Day: day, ScrapedAt: cache.ScrapedAt})
}

// GetEventImage serves the stored event image
// GET /api/event/image/:file
func (h *SiteHandler) GetEventImage(c *fiber.Ctx) error {
	path, err := h.settings.EventImagePath(c.Params("file"))
	if err != nil {
		if errors.Is(err, store.ErrImageNotStored) {
			return response.NotFound(c, "Image not found")
		}
		log.Printf("site: resolve event image: %v", err)
		return response.InternalServerError(c, "")
	}
	return c.SendFile(path)
}

// cacheIsStale reports whether the cache was scraped before today, so
// the page can distinguish "closed today" from "old data". A malformed
// timestamp counts as stale.
func cacheIsStale(cache model.MenuCache, now time.Time) bool {
	scraped := cache.ScrapedTime()
	if scraped.IsZero() {
		return true
	}
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	return scraped.Before(startOfDay)
}

// todayHours resolves the display string applying today: an exception
// range covering today's date wins over the weekly schedule.
func todayHours(settings model.Settings, today time.Time) string {
	date := today.Format("2006-01-02")
	for key, hours := range settings.Exceptions {
		from, to, ok := strings.Cut(key, "_")
		if !ok {
			continue
		}
		if from <= date && date <= to {
			return hours
		}
	}

	weekday := int(today.Weekday())
	if weekday == 0 {
		weekday = 7 // ISO numbering, Sunday is 7
	}
	for _, entry := range openinghours.Normalize(settings.OpeningHours) {
		if openinghours.Covers(entry.Key, weekday) {
			return entry.Hours
		}
	}
	return ""
}
