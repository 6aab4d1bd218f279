// Package settings holds the user's application preferences.
package settings

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"task-manager/internal/storage/bolt"
	"task-manager/internal/validation"
)

// Supported interface languages.
const (
	LanguageEnglish = "English"
	LanguageChinese = "Chinese"
	LanguageSpanish = "Spanish"
)

// Languages lists the supported languages in display order.
var Languages = []string{LanguageEnglish, LanguageChinese, LanguageSpanish}

// Setting keys accepted by Set.
const (
	KeyDarkMode             = "dark_mode"
	KeyNotificationsEnabled = "notifications_enabled"
	KeyLanguage             = "language"
	KeyBackgroundSound      = "background_sound"
)

// Settings are the user's preferences.
type Settings struct {
	DarkMode             bool   `json:"darkMode" yaml:"darkMode"`
	NotificationsEnabled bool   `json:"notificationsEnabled" yaml:"notificationsEnabled"`
	Language             string `json:"language" yaml:"language"`
	BackgroundSound      bool   `json:"backgroundSound" yaml:"backgroundSound"`
}

// Defaults returns the preferences of a fresh installation.
func Defaults() Settings {
	return Settings{
		DarkMode:             false,
		NotificationsEnabled: true,
		Language:             LanguageEnglish,
		BackgroundSound:      true,
	}
}

// Keys returns the setting keys in sorted order.
func Keys() []string {
	keys := []string{KeyDarkMode, KeyNotificationsEnabled, KeyLanguage, KeyBackgroundSound}
	sort.Strings(keys)
	return keys
}

// Get returns the textual value of key.
func (s Settings) Get(key string) (string, error) {
	switch key {
	case KeyDarkMode:
		return strconv.FormatBool(s.DarkMode), nil
	case KeyNotificationsEnabled:
		return strconv.FormatBool(s.NotificationsEnabled), nil
	case KeyLanguage:
		return s.Language, nil
	case KeyBackgroundSound:
		return strconv.FormatBool(s.BackgroundSound), nil
	}
	return "", unknownKey(key)
}

// Set returns a copy of s with key changed to value.
func (s Settings) Set(key, value string) (Settings, error) {
	ve := validation.NewValidationError()
	switch key {
	case KeyLanguage:
		lang := matchLanguage(value)
		if lang == "" {
			ve.AddNotAllowedError(key, value, Languages)
			return s, ve
		}
		s.Language = lang
		return s, nil
	case KeyDarkMode, KeyNotificationsEnabled, KeyBackgroundSound:
		b, err := strconv.ParseBool(value)
		if err != nil {
			ve.AddInvalidFormatError(key, value, "true or false")
			return s, ve
		}
		switch key {
		case KeyDarkMode:
			s.DarkMode = b
		case KeyNotificationsEnabled:
			s.NotificationsEnabled = b
		default:
			s.BackgroundSound = b
		}
		return s, nil
	}
	return s, unknownKey(key)
}

func matchLanguage(value string) string {
	for _, lang := range Languages {
		if strings.EqualFold(lang, strings.TrimSpace(value)) {
			return lang
		}
	}
	return ""
}

func unknownKey(key string) error {
	ve := validation.NewValidationError()
	ve.AddNotAllowedError(key, key, Keys())
	ve.Errors[0].Message = fmt.Sprintf("unknown setting %q, expected one of %s", key, strings.Join(Keys(), ", "))
	return ve
}

// Store loads and saves preferences.
type Store interface {
	Load() (Settings, error)
	Save(Settings) error
}

// MemoryStore keeps preferences for the life of the process only.
type MemoryStore struct {
	mu       sync.Mutex
	settings Settings
}

// NewMemoryStore creates a store holding the defaults.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{settings: Defaults()}
}

func (m *MemoryStore) Load() (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings, nil
}

func (m *MemoryStore) Save(s Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = s
	return nil
}

// Bucket and key used by BoltStore.
const (
	Bucket = "settings"
	key    = "app"
)

// BoltStore persists preferences in a bbolt bucket.
type BoltStore struct {
	db *bolt.Store
}

// NewBoltStore wraps db, which must have been opened with Bucket.
func NewBoltStore(db *bolt.Store) *BoltStore {
	return &BoltStore{db: db}
}

// Load returns the saved preferences, or the defaults when none were saved.
func (b *BoltStore) Load() (Settings, error) {
	s := Defaults()
	if _, err := b.db.Get(Bucket, key, &s); err != nil {
		return Defaults(), err
	}
	return s, nil
}

func (b *BoltStore) Save(s Settings) error {
	return b.db.Put(Bucket, key, s)
}
