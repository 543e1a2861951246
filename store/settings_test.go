package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ukotvy/website/model"
	"github.com/ukotvy/website/utils/auth"
)

func newTestSettingsStore(t *testing.T) (*SettingsStore, string, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	uploadDir := filepath.Join(dir, "uploads")
	return NewSettingsStore(path, uploadDir, "testpassword"), path, uploadDir
}

func TestLoadCreatesDefaults(t *testing.T) {
	s, path, _ := newTestSettingsStore(t)

	settings, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if settings.AdminPasswordHash == "" {
		t.Fatal("default document must carry a password hash")
	}
	if err := auth.VerifyPassword(settings.AdminPasswordHash, "testpassword"); err != nil {
		t.Fatalf("default password does not verify: %v", err)
	}
	if len(settings.OpeningHours) == 0 {
		t.Fatal("default document must carry opening hours")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("settings file not written: %v", err)
	}
}

func TestLoadNormalizesLegacyDeliveryShape(t *testing.T) {
	s, path, _ := newTestSettingsStore(t)
	legacy := `{
  "contact": {},
  "delivery": {
    "wolt": "https://wolt.com/r/u-kotvy",
    "foodora": {"url": "https://foodora.cz/u-kotvy", "enabled": false}
  },
  "opening_hours": {},
  "exceptions": {},
  "event": {},
  "admin_password_hash": "x"
}`
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}

	settings, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	wolt := settings.Delivery["wolt"]
	if wolt.URL != "https://wolt.com/r/u-kotvy" || !wolt.Enabled {
		t.Fatalf("legacy string entry not normalized: %+v", wolt)
	}
	foodora := settings.Delivery["foodora"]
	if foodora.URL != "https://foodora.cz/u-kotvy" || foodora.Enabled {
		t.Fatalf("structured entry mangled: %+v", foodora)
	}
}

func TestReplacePreservesPasswordHash(t *testing.T) {
	s, _, _ := newTestSettingsStore(t)
	original, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}

	next := original
	next.Contact.Phone = "+420 777 123 456"
	next.AdminPasswordHash = "attacker-controlled"
	if err := s.Replace(next); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	reloaded, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.AdminPasswordHash != original.AdminPasswordHash {
		t.Fatal("Replace must not touch the stored password hash")
	}
	if reloaded.Contact.Phone != "+420 777 123 456" {
		t.Fatal("edited field was not persisted")
	}
}

func TestDeactivatingEventDeletesImage(t *testing.T) {
	s, _, uploadDir := newTestSettingsStore(t)
	if _, err := s.Load(); err != nil {
		t.Fatal(err)
	}

	name, err := s.StoreEventImage(".png", []byte("not-really-a-png"))
	if err != nil {
		t.Fatalf("StoreEventImage: %v", err)
	}
	imagePath := filepath.Join(uploadDir, name)
	if _, err := os.Stat(imagePath); err != nil {
		t.Fatalf("image not written: %v", err)
	}

	settings, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	settings.Event.Active = false
	if err := s.Replace(settings); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	if _, err := os.Stat(imagePath); !os.IsNotExist(err) {
		t.Fatal("deactivation must delete the stored image")
	}
	reloaded, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Event.ImageFile != "" {
		t.Fatalf("image reference not cleared: %q", reloaded.Event.ImageFile)
	}
}

func TestStoreEventImageReplacesPrevious(t *testing.T) {
	s, _, uploadDir := newTestSettingsStore(t)
	if _, err := s.Load(); err != nil {
		t.Fatal(err)
	}

	first, err := s.StoreEventImage(".png", []byte("first"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.StoreEventImage(".jpg", []byte("second"))
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatal("expected a fresh filename")
	}

	if _, err := os.Stat(filepath.Join(uploadDir, first)); !os.IsNotExist(err) {
		t.Fatal("previous image must be deleted on replacement")
	}
	if _, err := os.Stat(filepath.Join(uploadDir, second)); err != nil {
		t.Fatalf("new image missing: %v", err)
	}

	settings, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if settings.Event.ImageFile != second {
		t.Fatalf("document references %q, want %q", settings.Event.ImageFile, second)
	}
}

func TestEventImagePathOnlyServesStoredFile(t *testing.T) {
	s, _, _ := newTestSettingsStore(t)
	if _, err := s.Load(); err != nil {
		t.Fatal(err)
	}
	name, err := s.StoreEventImage(".png", []byte("img"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.EventImagePath(name); err != nil {
		t.Fatalf("stored image must resolve: %v", err)
	}
	if _, err := s.EventImagePath("../settings.json"); err != ErrImageNotStored {
		t.Fatalf("expected ErrImageNotStored, got %v", err)
	}
}

// Concurrent whole-document saves and reads must never surface a torn
// document: every read parses and every file state is valid JSON.
func TestConcurrentReplaceAndLoad(t *testing.T) {
	s, path, _ := newTestSettingsStore(t)
	base, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				next := base
				next.Contact.Address = "Přístavní 42, Praha"
				if err := s.Replace(next); err != nil {
					t.Errorf("Replace: %v", err)
					return
				}
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				if _, err := s.Load(); err != nil {
					t.Errorf("Load: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc model.Settings
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("final document is not valid JSON: %v", err)
	}
}
