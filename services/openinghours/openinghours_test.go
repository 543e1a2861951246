package openinghours

import (
	"reflect"
	"testing"
)

func TestNormalizeOrdersByFirstWeekday(t *testing.T) {
	hours := map[string]string{
		"sunday":          "ZAVŘENO",
		"tuesday_friday":  "11:00 - 22:00",
		"saturday":        "12:00 - 22:00",
		"monday":          "11:00 - 21:00",
		"wednesday_thursday": "11:00 - 23:00",
	}

	entries := Normalize(hours)

	got := make([]string, 0, len(entries))
	for _, e := range entries {
		got = append(got, e.Key)
	}
	want := []string{"monday", "tuesday_friday", "wednesday_thursday", "saturday", "sunday"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Normalize order = %v, want %v", got, want)
	}
}

func TestNormalizeUnrecognizedKeysSortLast(t *testing.T) {
	hours := map[string]string{
		"brunch":    "10:00 - 14:00",
		"monday":    "11:00 - 22:00",
		"holidays":  "ZAVŘENO",
		"sunday":    "ZAVŘENO",
	}

	entries := Normalize(hours)
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}
	if entries[0].Key != "monday" || entries[1].Key != "sunday" {
		t.Fatalf("recognized keys should come first, got %v", entries)
	}
	// Unrecognized keys keep a stable relative order among themselves.
	if entries[2].Key != "brunch" || entries[3].Key != "holidays" {
		t.Fatalf("unrecognized keys out of order: %v", entries)
	}
}

func TestNormalizeLowercasesKeys(t *testing.T) {
	entries := Normalize(map[string]string{"Monday_Friday": "11:00 - 22:00"})
	if len(entries) != 1 || entries[0].Key != "monday_friday" {
		t.Fatalf("expected canonical lowercase key, got %v", entries)
	}
	if entries[0].Hours != "11:00 - 22:00" {
		t.Fatalf("hours value changed: %q", entries[0].Hours)
	}
}

func TestNormalizeNeverDropsEntries(t *testing.T) {
	hours := map[string]string{
		"monday": "a", "monday_friday": "b", "whatever": "c",
	}
	if got := len(Normalize(hours)); got != len(hours) {
		t.Fatalf("expected %d entries, got %d", len(hours), got)
	}
}

func TestRangeDays(t *testing.T) {
	tests := []struct {
		key  string
		want []string
	}{
		{"monday", []string{"monday"}},
		{"tuesday_friday", []string{"tuesday", "wednesday", "thursday", "friday"}},
		{"Saturday_Sunday", []string{"saturday", "sunday"}},
		{"friday_monday", nil}, // reversed range is not representable
		{"brunch", nil},
		{"monday_nope", nil},
	}
	for _, tt := range tests {
		if got := RangeDays(tt.key); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("RangeDays(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestCovers(t *testing.T) {
	if !Covers("tuesday_friday", 4) {
		t.Error("tuesday_friday should cover thursday")
	}
	if Covers("tuesday_friday", 6) {
		t.Error("tuesday_friday should not cover saturday")
	}
	if Covers("brunch", 1) {
		t.Error("unrecognized key covers nothing")
	}
}
