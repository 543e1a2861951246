package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/ukotvy/website/model"
	"github.com/ukotvy/website/utils/auth"
)

var (
	// ErrImageNotStored is returned when a requested event image is not
	// the one currently referenced by the settings document.
	ErrImageNotStored = errors.New("image is not the stored event image")
)

// SettingsStore persists the single restaurant settings document as a
// pretty-printed JSON file. Reads take a shared lock, writes an exclusive
// one, so a render request never observes a half-written document.
//
// The store also owns the event image file: replacing the image or
// deactivating the event deletes the previous file, keeping at most one
// stored image per event.
type SettingsStore struct {
	mu        sync.RWMutex
	path      string
	uploadDir string

	defaultPassword string
}

// NewSettingsStore creates a store for the settings file at path, with
// uploaded event images kept under uploadDir. defaultPassword is hashed
// into the document created on first load when the file is absent.
func NewSettingsStore(path, uploadDir, defaultPassword string) *SettingsStore {
	return &SettingsStore{
		path:            path,
		uploadDir:       uploadDir,
		defaultPassword: defaultPassword,
	}
}

// Load returns the current settings document, creating it with defaults
// if the file does not exist yet.
func (s *SettingsStore) Load() (model.Settings, error) {
	s.mu.RLock()
	settings, err := s.loadLocked()
	s.mu.RUnlock()
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		return settings, err
	}

	// First run: create the file with defaults under the write lock.
	s.mu.Lock()
	defer s.mu.Unlock()
	if settings, err := s.loadLocked(); err == nil {
		return settings, nil
	}
	defaults := model.DefaultSettings()
	hash, hashErr := auth.HashPassword(s.defaultPassword)
	if hashErr != nil {
		return model.Settings{}, fmt.Errorf("hash default password: %w", hashErr)
	}
	defaults.AdminPasswordHash = hash
	if err := writeJSONAtomic(s.path, defaults); err != nil {
		return model.Settings{}, err
	}
	return defaults, nil
}

func (s *SettingsStore) loadLocked() (model.Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return model.Settings{}, fmt.Errorf("read settings: %w", err)
	}
	var settings model.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return model.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return settings, nil
}

// Replace overwrites the whole settings document. The caller's password
// hash field is ignored; the stored hash survives every save and changes
// only through UpdatePasswordHash.
//
// Event image cleanup happens here so every path that deactivates the
// event or swaps its image gets the same side effect: the previously
// stored file is deleted and, on deactivation, the reference is cleared.
func (s *SettingsStore) Replace(next model.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadLocked()
	if err != nil {
		return err
	}
	next.AdminPasswordHash = current.AdminPasswordHash

	if !next.Event.Active {
		next.Event.ImageFile = ""
	}
	if old := current.Event.ImageFile; old != "" && old != next.Event.ImageFile {
		s.removeImage(old)
	}

	return writeJSONAtomic(s.path, next)
}

// UpdatePasswordHash persists a new admin password hash, leaving the rest
// of the document untouched.
func (s *SettingsStore) UpdatePasswordHash(hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadLocked()
	if err != nil {
		return err
	}
	current.AdminPasswordHash = hash
	return writeJSONAtomic(s.path, current)
}

// StoreEventImage writes an uploaded image into the upload directory under
// a fresh random name, deletes the previously stored image if any, and
// persists the new reference. The stored filename is returned.
func (s *SettingsStore) StoreEventImage(ext string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadLocked()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := uuid.New().String() + ext
	if err := os.WriteFile(filepath.Join(s.uploadDir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write event image: %w", err)
	}

	if old := current.Event.ImageFile; old != "" && old != name {
		s.removeImage(old)
	}
	current.Event.ImageFile = name
	if err := writeJSONAtomic(s.path, current); err != nil {
		s.removeImage(name)
		return "", err
	}
	return name, nil
}

// EventImagePath resolves the stored event image name to a path on disk.
// Only the filename currently referenced by the document is served.
func (s *SettingsStore) EventImagePath(name string) (string, error) {
	settings, err := s.Load()
	if err != nil {
		return "", err
	}
	if name == "" || settings.Event.ImageFile != name {
		return "", ErrImageNotStored
	}
	return filepath.Join(s.uploadDir, filepath.Base(name)), nil
}

func (s *SettingsStore) removeImage(name string) {
	if name == "" {
		return
	}
	err := os.Remove(filepath.Join(s.uploadDir, filepath.Base(name)))
	if err != nil && !os.IsNotExist(err) {
		log.Printf("settings: failed to remove event image %s: %v", name, err)
	}
}
