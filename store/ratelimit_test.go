package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestRateLimitLog(t *testing.T) *RateLimitLog {
	t.Helper()
	return NewRateLimitLog(filepath.Join(t.TempDir(), "rate_limits.json"), 3)
}

func TestRateLimitFourthDeniedWithinWindow(t *testing.T) {
	l := newTestRateLimitLog(t)
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		at := now.Add(time.Duration(i) * time.Minute)
		ok, err := l.Allow("1.2.3.4", at)
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if !ok {
			t.Fatalf("submission %d should be allowed", i+1)
		}
		if err := l.Record("1.2.3.4", at); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	ok, err := l.Allow("1.2.3.4", now.Add(59*time.Minute))
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if ok {
		t.Fatal("4th submission within 59 minutes must be denied")
	}
}

func TestRateLimitAddressesAreIndependent(t *testing.T) {
	l := newTestRateLimitLog(t)
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if err := l.Record("1.2.3.4", now); err != nil {
			t.Fatal(err)
		}
	}

	ok, err := l.Allow("5.6.7.8", now)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("a different address must not share the budget")
	}
}

func TestRateLimitWindowExpires(t *testing.T) {
	l := newTestRateLimitLog(t)
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if err := l.Record("1.2.3.4", now); err != nil {
			t.Fatal(err)
		}
	}

	ok, err := l.Allow("1.2.3.4", now.Add(time.Hour+time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("entries older than an hour must no longer count")
	}
}

func TestRateLimitAllowDoesNotRecord(t *testing.T) {
	l := newTestRateLimitLog(t)
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 10; i++ {
		ok, err := l.Allow("1.2.3.4", now)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatal("Allow alone must never consume the budget")
		}
	}
}

func TestRecordPrunesOtherAddresses(t *testing.T) {
	l := newTestRateLimitLog(t)
	old := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	now := old.Add(3 * time.Hour)

	if err := l.Record("1.2.3.4", old); err != nil {
		t.Fatal(err)
	}
	if err := l.Record("5.6.7.8", now); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		t.Fatal(err)
	}
	entries := map[string][]time.Time{}
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatal(err)
	}
	if _, ok := entries["1.2.3.4"]; ok {
		t.Fatal("stale address must be pruned from the file")
	}
	if len(entries["5.6.7.8"]) != 1 {
		t.Fatalf("unexpected entries for fresh address: %v", entries["5.6.7.8"])
	}
}
