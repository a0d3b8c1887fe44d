package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Theme is the UI appearance preference
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// Valid reports whether t is a known theme
func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}

// Locale is the UI language preference
type Locale string

const (
	LocaleUzbek    Locale = "uz"
	LocaleUzbekCyr Locale = "uz_Cyrl"
	LocaleRussian  Locale = "ru"
	LocaleEnglish  Locale = "en"
	LocaleArabic   Locale = "ar"
)

// Valid reports whether l is a known locale
func (l Locale) Valid() bool {
	switch l {
	case LocaleUzbek, LocaleUzbekCyr, LocaleRussian, LocaleEnglish, LocaleArabic:
		return true
	}
	return false
}

// Defaults applied when nothing is stored or the stored value is unknown
const (
	DefaultTheme  = ThemeSystem
	DefaultLocale = LocaleUzbek
)

// Prefs holds the persisted user preferences
type Prefs struct {
	Theme  Theme  `json:"theme"`
	Locale Locale `json:"locale"`
}

// PrefsStore persists user preferences. Writes are last-write-wins.
type PrefsStore interface {
	Get() Prefs
	SetTheme(theme Theme) error
	SetLocale(locale Locale) error
}

// FilePrefsStore keeps preferences in a JSON file. Unknown or corrupted
// values fall back to the defaults rather than erroring.
type FilePrefsStore struct {
	mu   sync.Mutex
	path string
}

// NewFilePrefsStore creates a store backed by the given file path
func NewFilePrefsStore(path string) *FilePrefsStore {
	return &FilePrefsStore{path: path}
}

// Get reads the current preferences, sanitized to valid enum values
func (s *FilePrefsStore) Get() Prefs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// SetTheme persists a theme choice; unknown values are rejected
func (s *FilePrefsStore) SetTheme(theme Theme) error {
	if !theme.Valid() {
		return ErrInvalidTheme
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prefs := s.load()
	prefs.Theme = theme
	return s.save(prefs)
}

// SetLocale persists a locale choice; unknown values are rejected
func (s *FilePrefsStore) SetLocale(locale Locale) error {
	if !locale.Valid() {
		return ErrInvalidLocale
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prefs := s.load()
	prefs.Locale = locale
	return s.save(prefs)
}

func (s *FilePrefsStore) load() Prefs {
	prefs := Prefs{Theme: DefaultTheme, Locale: DefaultLocale}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return prefs
	}

	var stored Prefs
	if err := json.Unmarshal(raw, &stored); err != nil {
		return prefs
	}

	if stored.Theme.Valid() {
		prefs.Theme = stored.Theme
	}
	if stored.Locale.Valid() {
		prefs.Locale = stored.Locale
	}
	return prefs
}

func (s *FilePrefsStore) save(prefs Prefs) error {
	raw, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	// Write-then-rename so a crash mid-write never corrupts the file
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
