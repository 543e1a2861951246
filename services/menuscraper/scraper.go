// Package menuscraper pulls the restaurant's daily menu off the
// third-party listing page and rewrites the local menu cache. A run is
// one fetch-parse-store cycle; any failure leaves the previously cached
// document untouched.
package menuscraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ukotvy/website/model"
	"github.com/ukotvy/website/store"
)

const (
	fetchTimeout = 10 * time.Second
	maxBodySize  = 4 << 20
	userAgent    = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/143.0.0.0 Safari/537.36"
)

// ErrNoMenuURL is returned when no daily menu URL is configured yet.
var ErrNoMenuURL = errors.New("daily menu URL is not configured")

// FetchError means the menu site could not be reached or answered with a
// bad status. The cache stays authoritative.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch menu page %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError means the page was fetched but did not contain the expected
// day card structure.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse menu page: %s", e.Reason)
}

// Scraper runs scrape cycles against the URL configured in the settings
// document.
type Scraper struct {
	client   *http.Client
	settings *store.SettingsStore
	cache    *store.MenuCacheStore
}

// NewScraper creates a scraper writing into the given menu cache store.
func NewScraper(settings *store.SettingsStore, cache *store.MenuCacheStore) *Scraper {
	return &Scraper{
		client:   &http.Client{Timeout: fetchTimeout},
		settings: settings,
		cache:    cache,
	}
}

// Run performs one scrape-and-store cycle and returns the number of day
// sections found. The cache write is atomic; a reader never observes a
// partial document.
func (s *Scraper) Run(ctx context.Context) (int, error) {
	settings, err := s.settings.Load()
	if err != nil {
		return 0, err
	}
	if settings.DailyMenuURL == "" {
		return 0, ErrNoMenuURL
	}

	body, err := s.fetch(ctx, settings.DailyMenuURL)
	if err != nil {
		return 0, err
	}

	days, err := ParseMenuPage(bytes.NewReader(body))
	if err != nil {
		return 0, err
	}

	cache := model.MenuCache{
		ScrapedAt: time.Now().Format(model.ScrapedAtLayout),
		Days:      days,
	}
	if err := s.cache.Replace(cache); err != nil {
		return 0, fmt.Errorf("store menu cache: %w", err)
	}

	log.Printf("menuscraper: cached %d days from %s", len(days), settings.DailyMenuURL)
	return len(days), nil
}

// fetch downloads the raw menu page with browser-like headers; some menu
// aggregators answer plain HTTP clients with 403.
func (s *Scraper) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "cs,en;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("http status: %s", resp.Status)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	return body, nil
}

// ParseMenuPage extracts day entries from the menu page HTML. Day cards
// are div.menicka blocks: the .nadpis header carries the date label,
// li.polevka items are soups, li.jidlo items are meals. Item labels sit
// in .polozka cells and prices in .cena cells.
func ParseMenuPage(r io.Reader) ([]model.MenuDay, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &ParseError{Reason: err.Error()}
	}

	cards := doc.Find("div.menicka")
	if cards.Length() == 0 {
		return nil, &ParseError{Reason: "no day cards found"}
	}

	var days []model.MenuDay
	cards.Each(func(_ int, card *goquery.Selection) {
		days = append(days, parseDayCard(card))
	})
	return days, nil
}

func parseDayCard(card *goquery.Selection) model.MenuDay {
	day := model.MenuDay{
		Date: strings.TrimSpace(card.Find(".nadpis").First().Text()),
	}

	text := card.Text()
	if containsFold(text, closedMarker) {
		day.IsClosed = true
		return day
	}
	if containsFold(text, emptyMarker) {
		day.IsEmpty = true
		return day
	}

	card.Find("li.polevka").Each(func(_ int, item *goquery.Selection) {
		if parsed, ok := parseItem(item, false); ok {
			// Exactly one soup per day; a later entry replaces an
			// earlier one.
			day.Soup = &parsed
		}
	})
	card.Find("li.jidlo").Each(func(_ int, item *goquery.Selection) {
		if parsed, ok := parseItem(item, true); ok {
			day.Meals = append(day.Meals, parsed)
		}
	})
	return day
}

// parseItem turns one list item into a menu item. Items without a
// parseable price are discarded entirely.
func parseItem(item *goquery.Selection, meal bool) (model.MenuItem, bool) {
	label := strings.TrimSpace(item.Find(".polozka").First().Text())
	priceText := strings.TrimSpace(item.Find(".cena").First().Text())
	if label == "" {
		label = strings.TrimSpace(item.Text())
	}
	if priceText == "" {
		priceText = item.Text()
	}

	price, ok := ParsePrice(priceText)
	if !ok {
		return model.MenuItem{}, false
	}

	label, allergens := ParseAllergens(label)
	parsed := model.MenuItem{
		Name:      label,
		Price:     price,
		Allergens: allergens,
	}
	if meal {
		if name, number, ok := ParseOrdinal(parsed.Name); ok {
			parsed.Name = name
			parsed.Number = &number
		}
	}
	if parsed.Name == "" {
		return model.MenuItem{}, false
	}
	return parsed, true
}
