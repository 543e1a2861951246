// Package dailymenu resolves "today's menu" from the scraped cache. The
// source site labels day sections with free text, so matching is lenient
// and, when several labels happen to match, the first one in page order
// wins.
package dailymenu

import (
	"fmt"
	"strings"
	"time"

	"github.com/ukotvy/website/model"
)

// czechWeekdays is indexed by time.Weekday (Sunday=0).
var czechWeekdays = []string{
	"neděle", "pondělí", "úterý", "středa", "čtvrtek", "pátek", "sobota",
}

// NotFoundError means the cache holds no entry for the requested day. It
// carries the cache's scrape timestamp so callers can surface staleness,
// and is distinct from fetch or parse failures.
type NotFoundError struct {
	ScrapedAt string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no menu entry for today (cache scraped at %q)", e.ScrapedAt)
}

// TodayFromCache finds the day entry whose label matches today. A label
// matches when it contains today's numeric day-month-year token
// ("29.8.2026"), or both today's Czech weekday name and the day-of-month
// token ("29.").
func TodayFromCache(cache model.MenuCache, today time.Time) (model.MenuDay, error) {
	numeric := fmt.Sprintf("%d.%d.%d", today.Day(), int(today.Month()), today.Year())
	weekday := czechWeekdays[int(today.Weekday())]
	dayToken := fmt.Sprintf("%d.", today.Day())

	for _, day := range cache.Days {
		label := strings.ToLower(day.Date)
		if containsToken(label, numeric) {
			return day, nil
		}
		if strings.Contains(label, weekday) && containsToken(label, dayToken) {
			return day, nil
		}
	}
	return model.MenuDay{}, &NotFoundError{ScrapedAt: cache.ScrapedAt}
}

// containsToken reports whether label contains token at a position not
// preceded by a digit, so "4." never matches inside "24.".
func containsToken(label, token string) bool {
	for from := 0; ; {
		i := strings.Index(label[from:], token)
		if i < 0 {
			return false
		}
		pos := from + i
		if pos == 0 || label[pos-1] < '0' || label[pos-1] > '9' {
			return true
		}
		from = pos + 1
	}
}
