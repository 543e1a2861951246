// Package openinghours orders the settings document's opening-hours map
// for display. Keys name one weekday or an underscore-joined contiguous
// range ("monday", "tuesday_friday"); the range is identified by its first
// and last day only, so the normalizer never validates contiguity.
package openinghours

import (
	"sort"
	"strings"
)

// unknownOrder sorts keys with an unrecognized first day after every
// recognized one, keeping their relative order.
const unknownOrder = 999

var weekdayNumbers = map[string]int{
	"monday":    1,
	"tuesday":   2,
	"wednesday": 3,
	"thursday":  4,
	"friday":    5,
	"saturday":  6,
	"sunday":    7,
}

var weekdayNames = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// Entry is one opening-hours row in display order.
type Entry struct {
	Key   string `json:"key"`
	Hours string `json:"hours"`
}

// Weekday returns the ISO weekday number (Monday=1..Sunday=7) for a
// weekday name, or 0 if the name is not recognized. Matching is
// case-insensitive.
func Weekday(name string) int {
	return weekdayNumbers[strings.ToLower(strings.TrimSpace(name))]
}

// order derives the sort position of a day key from its first token.
func order(key string) int {
	first := key
	if idx := strings.Index(key, "_"); idx >= 0 {
		first = key[:idx]
	}
	if n := Weekday(first); n > 0 {
		return n
	}
	return unknownOrder
}

// Normalize re-orders the opening-hours mapping for display: entries sort
// by the ISO weekday number of the first day named in their key, with
// unrecognized keys last. Keys are lowercased on output. No entry is ever
// dropped or merged.
//
// Map iteration order is not stable, so ties (including all unrecognized
// keys) are first fixed by sorting keys lexicographically; the weekday
// sort is stable on top of that.
func Normalize(hours map[string]string) []Entry {
	entries := make([]Entry, 0, len(hours))
	for key, value := range hours {
		entries = append(entries, Entry{Key: strings.ToLower(key), Hours: value})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	sort.SliceStable(entries, func(i, j int) bool {
		return order(entries[i].Key) < order(entries[j].Key)
	})
	return entries
}

// RangeDays expands a day key to the weekday names it covers: a single
// name for plain keys, the inclusive run from first to last for range
// keys. Unrecognized keys yield nil.
func RangeDays(key string) []string {
	key = strings.ToLower(strings.TrimSpace(key))
	first, last, isRange := strings.Cut(key, "_")
	if !isRange {
		if Weekday(key) == 0 {
			return nil
		}
		return []string{key}
	}

	from, to := Weekday(first), Weekday(last)
	if from == 0 || to == 0 || to < from {
		return nil
	}
	days := make([]string, 0, to-from+1)
	for n := from; n <= to; n++ {
		days = append(days, weekdayNames[n-1])
	}
	return days
}

// Covers reports whether the day key includes the given ISO weekday
// number.
func Covers(key string, weekday int) bool {
	for _, day := range RangeDays(key) {
		if weekdayNumbers[day] == weekday {
			return true
		}
	}
	return false
}
