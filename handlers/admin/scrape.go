package admin

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/ukotvy/website/services/menuscraper"
	"github.com/ukotvy/website/utils/response"
)

// ScrapeHandler triggers menu scrape cycles over HTTP
type ScrapeHandler struct {
	scraper *menuscraper.Scraper
}

// NewScrapeHandler creates the scrape trigger handler
func NewScrapeHandler(scraper *menuscraper.Scraper) *ScrapeHandler {
	return &ScrapeHandler{scraper: scraper}
}

// TriggerScrape runs one scrape-and-store cycle
// POST /admin/scrape
func (h *ScrapeHandler) TriggerScrape(c *fiber.Ctx) error {
	days, err := h.scraper.Run(c.Context())
	if err != nil {
		var fetchErr *menuscraper.FetchError
		var parseErr *menuscraper.ParseError
		switch {
		case errors.Is(err, menuscraper.ErrNoMenuURL):
			return response.BadRequest(c, "Daily menu URL is not configured")
		case errors.As(err, &fetchErr):
			log.Printf("admin: scrape fetch failed: %v", err)
			return response.BadGateway(c, "Menu site could not be reached")
		case errors.As(err, &parseErr):
			log.Printf("admin: scrape parse failed: %v", err)
			return response.BadGateway(c, "Menu site returned an unexpected page")
		default:
			log.Printf("admin: scrape failed: %v", err)
			return response.InternalServerError(c, "")
		}
	}

	return response.SuccessWithMessage(c, "Menu scraped", fiber.Map{"days": days})
}
