package menuscraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ukotvy/website/store"
)

const samplePage = `<html><body>
<div class="menicka">
  <div class="nadpis">Pondělí 24.8.2026</div>
  <ul>
    <li class="polevka"><div class="polozka">Česneková (1)</div><div class="cena">35 Kč</div></li>
    <li class="polevka"><div class="polozka">Gulášová (1,9)</div><div class="cena">39 Kč</div></li>
    <li class="jidlo"><div class="polozka">1. Kuřecí řízek (1,3,7)</div><div class="cena">129 Kč</div></li>
    <li class="jidlo"><div class="polozka">3. Guláš (1,9)</div><div class="cena">139 Kč</div></li>
    <li class="jidlo"><div class="polozka">Denní salát</div><div class="cena">dle nabídky</div></li>
  </ul>
</div>
<div class="menicka">
  <div class="nadpis">Úterý 25.8.2026</div>
  <div class="poznamka">Dnes máme ZAVŘENO, děkujeme za pochopení.</div>
  <ul>
    <li class="jidlo"><div class="polozka">1. Svíčková (1,7)</div><div class="cena">149 Kč</div></li>
  </ul>
</div>
<div class="menicka">
  <div class="nadpis">Středa 26.8.2026</div>
  <div class="poznamka">Menu nebylo zadáno.</div>
</div>
</body></html>`

func TestParseMenuPage(t *testing.T) {
	days, err := ParseMenuPage(strings.NewReader(samplePage))
	if err != nil {
		t.Fatalf("ParseMenuPage: %v", err)
	}
	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}

	monday := days[0]
	if monday.Date != "Pondělí 24.8.2026" {
		t.Errorf("date = %q", monday.Date)
	}
	if monday.IsClosed || monday.IsEmpty {
		t.Errorf("monday should be a regular day: %+v", monday)
	}

	// Exactly one soup survives; the last one wins.
	if monday.Soup == nil {
		t.Fatal("expected a soup entry")
	}
	if monday.Soup.Name != "Gulášová" || monday.Soup.Price != 39 {
		t.Errorf("soup = %+v", monday.Soup)
	}
	if monday.Soup.Number != nil {
		t.Error("a soup must never carry an ordinal number")
	}
	if !reflect.DeepEqual(monday.Soup.Allergens, []int{1, 9}) {
		t.Errorf("soup allergens = %v", monday.Soup.Allergens)
	}

	// The unpriced salad is discarded entirely.
	if len(monday.Meals) != 2 {
		t.Fatalf("expected 2 meals, got %d: %+v", len(monday.Meals), monday.Meals)
	}
	first := monday.Meals[0]
	if first.Name != "Kuřecí řízek" || first.Price != 129 {
		t.Errorf("meal 0 = %+v", first)
	}
	if !reflect.DeepEqual(first.Allergens, []int{1, 3, 7}) {
		t.Errorf("meal 0 allergens = %v", first.Allergens)
	}
	if first.Number == nil || *first.Number != 1 {
		t.Errorf("meal 0 number = %v", first.Number)
	}
	second := monday.Meals[1]
	if second.Name != "Guláš" || second.Number == nil || *second.Number != 3 {
		t.Errorf("meal 1 = %+v", second)
	}

	// The closed marker wins over everything else in the card.
	tuesday := days[1]
	if !tuesday.IsClosed {
		t.Error("tuesday should be closed")
	}
	if tuesday.Soup != nil || len(tuesday.Meals) != 0 {
		t.Errorf("closed day must carry no items: %+v", tuesday)
	}

	if !days[2].IsEmpty {
		t.Error("wednesday should be empty")
	}
}

func TestParseMenuPageNoCards(t *testing.T) {
	_, err := ParseMenuPage(strings.NewReader("<html><body><p>maintenance</p></body></html>"))
	if err == nil {
		t.Fatal("expected a parse error for a page without day cards")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
}

func newTestStores(t *testing.T, menuURL string) (*store.SettingsStore, *store.MenuCacheStore) {
	t.Helper()
	dir := t.TempDir()
	settings := store.NewSettingsStore(filepath.Join(dir, "settings.json"), filepath.Join(dir, "uploads"), "testpassword")

	doc, err := settings.Load()
	if err != nil {
		t.Fatalf("init settings: %v", err)
	}
	doc.DailyMenuURL = menuURL
	if err := settings.Replace(doc); err != nil {
		t.Fatalf("set menu url: %v", err)
	}
	return settings, store.NewMenuCacheStore(filepath.Join(dir, "menu_cache.json"))
}

func TestScraperRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	settings, cache := newTestStores(t, srv.URL)
	scraper := NewScraper(settings, cache)

	days, err := scraper.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if days != 3 {
		t.Fatalf("expected 3 days, got %d", days)
	}

	stored, err := cache.Load()
	if err != nil {
		t.Fatalf("load cache: %v", err)
	}
	if len(stored.Days) != 3 {
		t.Fatalf("cache holds %d days", len(stored.Days))
	}
	if stored.ScrapedAt == "" {
		t.Error("scraped_at not set")
	}
}

func TestScraperRunFetchFailureLeavesCacheUntouched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePage))
	}))
	settings, cache := newTestStores(t, srv.URL)
	scraper := NewScraper(settings, cache)
	if _, err := scraper.Run(context.Background()); err != nil {
		t.Fatalf("seed run: %v", err)
	}
	before, err := cache.Load()
	if err != nil {
		t.Fatalf("load cache: %v", err)
	}

	// Subsequent fetches fail; the cached document must survive as-is.
	srv.Close()
	if _, err := scraper.Run(context.Background()); err == nil {
		t.Fatal("expected a fetch error")
	} else {
		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatalf("expected *FetchError, got %T: %v", err, err)
		}
	}

	after, err := cache.Load()
	if err != nil {
		t.Fatalf("reload cache: %v", err)
	}
	if !reflect.DeepEqual(before, after) {
		t.Error("failed scrape modified the cache")
	}
}

func TestScraperRunBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	settings, cache := newTestStores(t, srv.URL)
	if _, err := NewScraper(settings, cache).Run(context.Background()); err == nil {
		t.Fatal("expected an error for a 403 response")
	}

	if _, err := cache.Load(); err != store.ErrCacheMissing {
		t.Fatalf("cache should remain unwritten, got %v", err)
	}
}
